package depsolve

import "github.com/armon/go-radix"

// radixFileIndex indexes file-provides (requires like /usr/bin/foo that
// must be matched against the union of file lists from providers,
// spec.md §3 "WhatProvides index") over a prefix trie, the same
// structure and library the teacher's rootdata.go uses to prefix-match
// import paths against manifest overrides. A path-keyed lookup is
// naturally a prefix-match problem, so the fit is direct, not
// incidental.
type radixFileIndex struct {
	tree *radix.Tree
}

func newRadixFileIndex() *radixFileIndex {
	return &radixFileIndex{tree: radix.New()}
}

// addFile records that solvable s owns path (one entry per file in its
// filelist). Multiple solvables may own the same path; they accumulate.
func (idx *radixFileIndex) addFile(path string, s SolvableID) {
	if v, ok := idx.tree.Get(path); ok {
		owners := v.([]SolvableID)
		idx.tree.Insert(path, append(owners, s))
		return
	}
	idx.tree.Insert(path, []SolvableID{s})
}

// lookup returns the solvables that own path exactly.
func (idx *radixFileIndex) lookup(path string) []SolvableID {
	v, ok := idx.tree.Get(path)
	if !ok {
		return nil
	}
	return v.([]SolvableID)
}

// AddFileProvides enriches the Pool's file-provides index by scanning
// filelist for each (path, solvable) pair. Callers typically invoke
// this once per solve, per spec.md §4.1 "add_file_provides() ... called
// at most once per solve": loading it eagerly for every solvable up
// front would do needless work for files no job ever requires.
func (p *Pool) AddFileProvides(filelists map[SolvableID][]string) {
	if p.fileProvides == nil {
		p.fileProvides = newRadixFileIndex()
	}
	for s, files := range filelists {
		for _, f := range files {
			p.fileProvides.addFile(f, s)
		}
	}
}

// WhatProvidesFile returns the solvables whose filelist contains path
// exactly, per the file-provides mechanism in spec.md §3.
func (p *Pool) WhatProvidesFile(path string) []SolvableID {
	if p.fileProvides == nil {
		return nil
	}
	return p.fileProvides.lookup(path)
}
