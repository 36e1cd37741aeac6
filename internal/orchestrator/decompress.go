package orchestrator

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path"

	"github.com/chelestewang/dollie/internal/vtree"
)

// No full-featured archive library appears as a direct dependency of any
// complete example repo in the retrieval pack (klauspost/compress, where
// present, is always an indirect transitive dependency of unrelated
// tooling, never imported directly for tar/zip handling) — so archive
// decompression is implemented against the standard library's
// archive/tar, archive/zip, and compress/gzip, matching the "tar/zip
// family" contract in spec.md §6.

// Decompress detects whether data is a zip or a (possibly gzipped) tar
// archive and unpacks its regular files into tree under root.
func Decompress(data []byte, tree *vtree.Tree, root string) error {
	if len(data) == 0 {
		return fmt.Errorf("orchestrator: empty archive")
	}
	if isZip(data) {
		return decompressZip(data, tree, root)
	}
	return decompressTar(data, tree, root)
}

func isZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 0x03 && data[3] == 0x04
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

func decompressZip(data []byte, tree *vtree.Tree, root string) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("orchestrator: read zip archive: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("orchestrator: open zip entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("orchestrator: read zip entry %s: %w", f.Name, err)
		}
		if err := tree.WriteFile(path.Join(root, f.Name), content); err != nil {
			return fmt.Errorf("orchestrator: write %s: %w", f.Name, err)
		}
	}
	return nil
}

func decompressTar(data []byte, tree *vtree.Tree, root string) error {
	var r io.Reader = bytes.NewReader(data)
	if isGzip(data) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("orchestrator: read gzip archive: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("orchestrator: read tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("orchestrator: read tar entry %s: %w", hdr.Name, err)
		}
		if err := tree.WriteFile(path.Join(root, hdr.Name), content); err != nil {
			return fmt.Errorf("orchestrator: write %s: %w", hdr.Name, err)
		}
	}
}
