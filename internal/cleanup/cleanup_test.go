package cleanup

import (
	"errors"
	"testing"

	"github.com/chelestewang/dollie/internal/blocks"
	"github.com/chelestewang/dollie/internal/linediff"
)

func baseTables() (MergeTable, BinaryTable) {
	merge := MergeTable{
		"a.txt": blocks.ToBlocks(linediff.SelfDiff("hello\n")),
	}
	binary := BinaryTable{
		"img.bin": []byte{0x00, 0x01},
	}
	return merge, binary
}

func TestAddFileIsNoOpIfExists(t *testing.T) {
	merge, binary := baseTables()
	mergeOut, _, err := Run(merge, binary, []Callback{
		func(api *API) error {
			api.AddFile("a.txt", "overwritten\n")
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if blocks.ToText(mergeOut["a.txt"]) != "hello\n" {
		t.Fatalf("expected AddFile to no-op on an existing path, got %q", blocks.ToText(mergeOut["a.txt"]))
	}
}

func TestAddFileInsertsNewPath(t *testing.T) {
	merge, binary := baseTables()
	mergeOut, _, err := Run(merge, binary, []Callback{
		func(api *API) error {
			api.AddFile("b.txt", "new\n")
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if blocks.ToText(mergeOut["b.txt"]) != "new\n" {
		t.Fatalf("got %q", blocks.ToText(mergeOut["b.txt"]))
	}
}

func TestDeleteFilesRemovesFromOutput(t *testing.T) {
	merge, binary := baseTables()
	mergeOut, binaryOut, err := Run(merge, binary, []Callback{
		func(api *API) error {
			api.DeleteFiles([]string{"a.txt", "img.bin"})
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mergeOut["a.txt"]; ok {
		t.Fatal("expected a.txt to be deleted")
	}
	if _, ok := binaryOut["img.bin"]; ok {
		t.Fatal("expected img.bin to be deleted")
	}
}

func TestExistsChecksOriginalNotClone(t *testing.T) {
	merge, binary := baseTables()
	var sawDeletedStillExists bool
	_, _, err := Run(merge, binary, []Callback{
		func(api *API) error {
			api.DeleteFiles([]string{"a.txt"})
			sawDeletedStillExists = api.Exists("a.txt")
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sawDeletedStillExists {
		t.Fatal("expected Exists to check the original table, unaffected by this run's delete")
	}
}

func TestCallbackErrorAbortsAndDropsChanges(t *testing.T) {
	merge, binary := baseTables()
	mergeOut, _, err := Run(merge, binary, []Callback{
		func(api *API) error {
			api.AddFile("b.txt", "new\n")
			return errors.New("boom")
		},
	})
	if err == nil {
		t.Fatal("expected the callback error to propagate")
	}
	if _, ok := mergeOut["b.txt"]; ok {
		t.Fatal("expected the failed run's added file to be dropped")
	}
}

func TestGetTextFileContentReadsOriginal(t *testing.T) {
	merge, binary := baseTables()
	var got string
	_, _, err := Run(merge, binary, []Callback{
		func(api *API) error {
			got, _ = api.GetTextFileContent("a.txt")
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello\n" {
		t.Fatalf("GetTextFileContent() = %q", got)
	}
}
