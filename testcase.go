package depsolve

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Testcase is a parsed reproducible-solve fixture: a Pool preloaded
// with repos/solvables plus the job list to solve against it, in the
// newline-delimited text format from spec.md §6 "Testcase text format",
// grounded in libsolv's ext/testcase.c. Dependency lines always refer
// back to the most recently emitted pkg line, mirroring testcase.c's
// "current solvable" parsing state.
type Testcase struct {
	Pool *Pool
	Jobs []JobEntry
}

// ParseTestcase reads a Testcase from r. Parse errors are wrapped with
// the offending line number via github.com/pkg/errors, per spec.md §6's
// ambient error-handling convention (boundary-facing parse failures get
// wrapped context; solver-internal failures stay as plain typed
// errors).
func ParseTestcase(r io.Reader) (*Testcase, error) {
	pool := NewPool()
	var jobs []JobEntry

	var curRepo RepoID
	haveRepo := false
	var curSolvable SolvableID
	haveSolvable := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "repo":
			if len(args) < 3 {
				return nil, errors.Errorf("testcase:%d: repo needs name priority installed", lineNo)
			}
			prio, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, errors.Wrapf(err, "testcase:%d: repo priority", lineNo)
			}
			installed := args[2] == "1"
			curRepo = pool.AddRepo(args[0], prio, installed)
			haveRepo = true
			haveSolvable = false

		case "pkg":
			if !haveRepo {
				return nil, errors.Errorf("testcase:%d: pkg before any repo", lineNo)
			}
			if len(args) < 4 {
				return nil, errors.Errorf("testcase:%d: pkg needs name evr arch vendor", lineNo)
			}
			sv := Solvable{
				Name:   pool.InternName(args[0]),
				EVR:    ParseEVR(args[1]),
				Arch:   pool.InternString(args[2]),
				Vendor: pool.InternString(args[3]),
			}
			curSolvable = pool.AddSolvable(curRepo, sv)
			haveSolvable = true

		case "requires", "conflicts", "obsoletes", "provides", "recommends", "suggests", "supplements", "enhances":
			if !haveSolvable {
				return nil, errors.Errorf("testcase:%d: %s before any pkg", lineNo, cmd)
			}
			if len(args) < 1 {
				return nil, errors.Errorf("testcase:%d: %s needs a dependency string", lineNo, cmd)
			}
			dep, err := parseDepString(pool, strings.Join(args, " "))
			if err != nil {
				return nil, errors.Wrapf(err, "testcase:%d", lineNo)
			}
			appendDep(pool.Solvable(curSolvable), cmd, dep)

		case "job":
			if len(args) < 2 {
				return nil, errors.Errorf("testcase:%d: job needs action selection", lineNo)
			}
			j, err := parseJobLine(pool, args)
			if err != nil {
				return nil, errors.Wrapf(err, "testcase:%d", lineNo)
			}
			jobs = append(jobs, j)

		default:
			return nil, errors.Errorf("testcase:%d: unknown command %q", lineNo, cmd)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "testcase: reading input")
	}

	pool.CreateWhatProvides()
	return &Testcase{Pool: pool, Jobs: jobs}, nil
}

func appendDep(sv *Solvable, kind string, dep DepID) {
	switch kind {
	case "requires":
		sv.Requires = append(sv.Requires, dep)
	case "conflicts":
		sv.Conflicts = append(sv.Conflicts, dep)
	case "obsoletes":
		sv.Obsoletes = append(sv.Obsoletes, dep)
	case "provides":
		sv.Provides = append(sv.Provides, dep)
	case "recommends":
		sv.Recommends = append(sv.Recommends, dep)
	case "suggests":
		sv.Suggests = append(sv.Suggests, dep)
	case "supplements":
		sv.Supplements = append(sv.Supplements, dep)
	case "enhances":
		sv.Enhances = append(sv.Enhances, dep)
	}
}

// parseDepString parses "name[ op evr]", e.g. "libfoo" or "libfoo >= 1.2-3".
func parseDepString(pool *Pool, s string) (DepID, error) {
	fields := strings.Fields(s)
	name := pool.InternName(fields[0])
	if len(fields) == 1 {
		return NameDepID(name), nil
	}
	if len(fields) != 3 {
		return 0, errors.Errorf("malformed dependency %q", s)
	}
	op, err := parseOp(fields[1])
	if err != nil {
		return 0, err
	}
	return pool.InternRel(name, op, ParseEVR(fields[2])), nil
}

func parseOp(s string) (Op, error) {
	switch s {
	case "<":
		return OpLT, nil
	case "<=":
		return OpLE, nil
	case "=", "==":
		return OpEQ, nil
	case ">=":
		return OpGE, nil
	case ">":
		return OpGT, nil
	case "!=":
		return OpNE, nil
	default:
		return OpAny, errors.Errorf("unknown relational operator %q", s)
	}
}

// parseJobLine parses "job <action> <selection> <arg...>".
func parseJobLine(pool *Pool, args []string) (JobEntry, error) {
	action, err := parseJobAction(args[0])
	if err != nil {
		return JobEntry{}, err
	}
	sel := args[1]
	rest := args[2:]

	j := JobEntry{Action: action}
	switch sel {
	case "name":
		if len(rest) < 1 {
			return JobEntry{}, errors.New("job name needs an argument")
		}
		j.Selection = SelectName
		j.WhatName = pool.InternName(rest[0])
	case "provides":
		if len(rest) < 1 {
			return JobEntry{}, errors.New("job provides needs a dependency string")
		}
		dep, err := parseDepString(pool, strings.Join(rest, " "))
		if err != nil {
			return JobEntry{}, err
		}
		j.Selection = SelectProvides
		j.WhatDep = dep
	case "all":
		j.Selection = SelectAll
	default:
		return JobEntry{}, errors.Errorf("unknown job selection %q", sel)
	}
	return j, nil
}

func parseJobAction(s string) (JobAction, error) {
	switch s {
	case "install":
		return JobInstall, nil
	case "erase":
		return JobErase, nil
	case "update":
		return JobUpdate, nil
	case "lock":
		return JobLock, nil
	case "distupgrade":
		return JobDistupgrade, nil
	case "verify":
		return JobVerify, nil
	default:
		return 0, errors.Errorf("unknown job action %q", s)
	}
}

// WriteResult renders a solved Transaction back into testcase "result"
// lines, the counterpart callers diff against a checked-in expected
// fixture in a table-driven test.
func WriteResult(w io.Writer, pool *Pool, tx *Transaction) error {
	for _, st := range tx.Steps {
		var line string
		switch st.Kind {
		case StepErase:
			line = fmt.Sprintf("result erase %s", pool.errString(st.From))
		default:
			line = fmt.Sprintf("result %s %s", st.Kind, pool.errString(st.To))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "testcase: writing result")
		}
	}
	return nil
}
