package vtree

import "testing"

func TestWriteFileCreatesAncestors(t *testing.T) {
	tr := New()
	if err := tr.WriteFile("/template/main/a/b/c.txt", []byte("hi")); err != nil {
		t.Fatal(err)
	}
	if !tr.Exists("/template/main/a") {
		t.Fatal("expected ancestor directory to exist")
	}
	st, err := tr.Stat("/template/main/a")
	if err != nil || !st.IsDir() {
		t.Fatalf("expected /template/main/a to be a directory, err=%v", err)
	}
	data, err := tr.ReadFile("/template/main/a/b/c.txt")
	if err != nil || string(data) != "hi" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
}

func TestWalkOrderAndBinaryHeuristic(t *testing.T) {
	tr := New()
	must(t, tr.WriteFile("/template/main/b.txt", []byte("text")))
	must(t, tr.WriteFile("/template/main/a.txt", []byte("text")))
	must(t, tr.WriteFile("/template/main/img.bin", []byte{0x00, 0x01, 0x02}))

	entries := tr.Walk("/template/main")
	var names []string
	for _, e := range entries {
		if !e.IsDirectory {
			names = append(names, e.Name)
		}
	}
	if len(names) != 3 || names[0] != "a.txt" || names[1] != "b.txt" || names[2] != "img.bin" {
		t.Fatalf("Walk order = %v", names)
	}

	for _, e := range entries {
		if e.Name == "img.bin" && !e.IsBinary {
			t.Fatal("expected img.bin to be detected as binary")
		}
		if e.Name == "a.txt" && e.IsBinary {
			t.Fatal("expected a.txt to be detected as text")
		}
	}
}

func TestRelPath(t *testing.T) {
	if got := RelPath("/template/main", "/template/main/sub/file.txt"); got != "sub/file.txt" {
		t.Fatalf("RelPath = %q", got)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
