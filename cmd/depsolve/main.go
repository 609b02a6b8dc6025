// Command depsolve loads a testcase fixture, runs the solver, and
// prints either the resulting transaction or a problem report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkgsolve/depsolve"
)

func main() {
	trace := flag.Bool("trace", false, "enable solver trace logging")
	cleandeps := flag.Bool("cleandeps", false, "apply cleandeps pass to the result")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *trace, *cleandeps); err != nil {
		fmt.Fprintln(os.Stderr, "depsolve:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <testcase-file>\n", os.Args[0])
	flag.PrintDefaults()
}

func run(path string, trace, cleandeps bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tc, err := depsolve.ParseTestcase(f)
	if err != nil {
		return err
	}

	opts := depsolve.Options{
		Pool:  tc.Pool,
		Job:   tc.Jobs,
		Trace: trace,
	}
	if trace {
		opts.TraceLogger = log.New(os.Stderr, "solve: ", 0)
	}

	solver, err := depsolve.NewSolver(opts)
	if err != nil {
		return err
	}

	sol, err := solver.Solve()
	if err != nil {
		return err
	}

	if len(sol.Problems) > 0 {
		for _, p := range sol.Problems {
			rid := solver.FindProblemRule(p)
			info := solver.RuleInfo(rid)
			fmt.Printf("problem %d: %s rule %d is unsatisfiable\n", p.ID(), info.Class, rid)
			for _, s := range solver.Solutions(p) {
				fmt.Printf("  solution: job %d: %s\n", s.Job, s.Description)
			}
		}
		return nil
	}

	if cleandeps {
		sol.Assignment = solver.CleanDeps(sol)
	}

	tx, err := solver.BuildTransaction(sol)
	if err != nil {
		return err
	}
	return depsolve.WriteResult(os.Stdout, tc.Pool, tx)
}
