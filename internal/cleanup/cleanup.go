// Package cleanup runs the post-processing callbacks collected from the
// main template config and every activated extend config, over a mutable
// clone of the MergeTable/BinaryTable, per spec.md §4.8. Grounded on the
// teacher's pattern of writing mutations through a "plan" value and only
// applying it to the real store once every action has been validated; here
// the plan is the clone a callback is handed.
package cleanup

import (
	"fmt"

	"github.com/chelestewang/dollie/internal/blocks"
	"github.com/chelestewang/dollie/internal/linediff"
)

// MergeTable maps a pathname to its merged blocks.
type MergeTable map[string][]blocks.Block

// BinaryTable maps a pathname to raw bytes.
type BinaryTable map[string][]byte

// Callback is one template's cleanup function.
type Callback func(api *API) error

// API is the mutation surface exposed to a cleanup callback: reads answer
// the original tables; writes land on a clone that is only committed once
// every callback has run without error.
type API struct {
	originalMerge  MergeTable
	originalBinary BinaryTable

	mergeClone  MergeTable
	binaryClone BinaryTable
	deleted     map[string]bool
}

// AddFile inserts a fresh OK block sequence from text. A no-op if path
// already exists (in the clone, so earlier callbacks in the same run are
// respected).
func (a *API) AddFile(path, text string) {
	a.AddTextFile(path, text)
}

// AddTextFile is an alias for AddFile, per spec.md §4.8.
func (a *API) AddTextFile(path, text string) {
	if a.exists(path) {
		return
	}
	a.mergeClone[path] = blocks.ToBlocks(linediff.SelfDiff(text))
	delete(a.deleted, path)
}

// AddBinaryFile inserts path into the binary clone. A no-op if path
// already exists.
func (a *API) AddBinaryFile(path string, data []byte) {
	if a.exists(path) {
		return
	}
	a.binaryClone[path] = data
	delete(a.deleted, path)
}

// DeleteFiles marks every given path deleted in the clone.
func (a *API) DeleteFiles(paths []string) {
	for _, p := range paths {
		a.deleted[p] = true
		delete(a.mergeClone, p)
		delete(a.binaryClone, p)
	}
}

// Exists reports whether path is present in the original (pre-cleanup)
// tables.
func (a *API) Exists(path string) bool {
	if _, ok := a.originalMerge[path]; ok {
		return true
	}
	_, ok := a.originalBinary[path]
	return ok
}

func (a *API) exists(path string) bool {
	if a.deleted[path] {
		return false
	}
	if _, ok := a.mergeClone[path]; ok {
		return true
	}
	_, ok := a.binaryClone[path]
	return ok
}

// GetTextFileContent serialises the original MergeTable entry at path.
func (a *API) GetTextFileContent(path string) (string, bool) {
	blk, ok := a.originalMerge[path]
	if !ok {
		return "", false
	}
	return blocks.ToText(blk), true
}

// GetBinaryFileBuffer returns the original BinaryTable entry at path.
func (a *API) GetBinaryFileBuffer(path string) ([]byte, bool) {
	data, ok := a.originalBinary[path]
	return data, ok
}

// Run executes every callback in order over a clone of merge/binary,
// committing the clone only if every callback succeeds. A callback error
// propagates and aborts the run, per spec.md §7 ("Cleanup callbacks that
// throw propagate and abort the run").
func Run(mergeTable MergeTable, binaryTable BinaryTable, callbacks []Callback) (MergeTable, BinaryTable, error) {
	api := &API{
		originalMerge:  mergeTable,
		originalBinary: binaryTable,
		mergeClone:     cloneMerge(mergeTable),
		binaryClone:    cloneBinary(binaryTable),
		deleted:        make(map[string]bool),
	}

	for i, cb := range callbacks {
		if err := cb(api); err != nil {
			return nil, nil, fmt.Errorf("cleanup: callback %d: %w", i, err)
		}
	}

	for path := range api.deleted {
		delete(api.mergeClone, path)
		delete(api.binaryClone, path)
	}

	return api.mergeClone, api.binaryClone, nil
}

func cloneMerge(src MergeTable) MergeTable {
	out := make(MergeTable, len(src))
	for k, v := range src {
		cp := make([]blocks.Block, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

func cloneBinary(src BinaryTable) BinaryTable {
	out := make(BinaryTable, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
