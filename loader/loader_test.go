package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/model"
)

// writeMinimalDOCX writes the smallest archive the DOCX backend accepts.
func writeMinimalDOCX(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>hi</w:t></w:r></w:p></w:body></w:document>`))
	zw.Close()
	f.Close()
}

func TestLoadDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	writeMinimalDOCX(t, path)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer h.Close()

	if h.Kind != model.KindFlowed {
		t.Errorf("Kind = %v, want KindFlowed", h.Kind)
	}
	if h.Word == nil || h.PDF != nil || h.Deck != nil {
		t.Error("expected only the DOCX backend to be set")
	}
	if h.Base() != "doc" {
		t.Errorf("Base = %q, want doc", h.Base())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.docx")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadExtensionCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DOC.DOCX")
	writeMinimalDOCX(t, path)

	h, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer h.Close()

	if h.Kind != model.KindFlowed {
		t.Errorf("Kind = %v, want KindFlowed", h.Kind)
	}
}
