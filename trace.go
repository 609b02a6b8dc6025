package depsolve

import "log"

// Options holds solver-run parameters, the depsolve analogue of the
// teacher's SolveParameters: the knobs needed to prep a Solver plus the
// optional trace logger. Only Pool and Job are required.
type Options struct {
	// Pool is the interned universe of packages this run operates over.
	Pool *Pool

	// Job is the flat (how, what) job queue (spec.md §6).
	Job []JobEntry

	// Installed is not read by the solver: the currently installed set
	// is the repo added with installed=true (Pool.InstalledRepo).
	Installed RepoID

	// Flags holds the SOLVER_* flags from spec.md §6.
	Flags SolverFlags

	// Trace controls whether the solver emits trace output as it moves
	// through rule construction and the CDCL loop.
	Trace bool

	// TraceLogger receives trace output if Trace is true. Required when
	// Trace is true, exactly like the teacher's
	// SolveParameters.Trace/TraceLogger pairing.
	TraceLogger *log.Logger
}

func (o *Options) trace(format string, args ...interface{}) {
	if o.Trace && o.TraceLogger != nil {
		o.TraceLogger.Printf(format, args...)
	}
}

// This file only holds the option plumbing and the low-level Printf
// helper; the solver calls s.opts.trace directly and has no trace
// methods of its own.
