// Package loader resolves a file path to an open document handle. The
// document kind is decided once here, from the file extension, and carried
// on the handle for the rest of the pipeline.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsift/docsift/docx"
	"github.com/docsift/docsift/model"
	"github.com/docsift/docsift/pdfdoc"
	"github.com/docsift/docsift/pptx"
)

// Handle is an open document of a known kind. Exactly one of the backend
// readers is set, matching Kind.
type Handle struct {
	Path string
	Kind model.Kind

	PDF  *pdfdoc.Reader
	Word *docx.Reader
	Deck *pptx.Reader
}

// Load validates the path and opens the document with the backend for its
// extension. An unrecognized extension fails with ErrUnsupportedFormat.
func Load(path string) (*Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	kind := model.KindForExtension(ext)

	h := &Handle{Path: path, Kind: kind}
	var err error

	switch kind {
	case model.KindPaged:
		h.PDF, err = pdfdoc.Open(path)
	case model.KindFlowed:
		h.Word, err = docx.Open(path)
	case model.KindSlides:
		h.Deck, err = pptx.Open(path)
	default:
		return nil, model.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return h, nil
}

// Close releases the underlying reader, if it holds one.
func (h *Handle) Close() error {
	switch {
	case h.Word != nil:
		return h.Word.Close()
	case h.Deck != nil:
		return h.Deck.Close()
	}
	return nil
}

// Base returns the file name without directory or extension, used to name
// derived artifacts such as output directories.
func (h *Handle) Base() string {
	name := filepath.Base(h.Path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
