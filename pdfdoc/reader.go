// Package pdfdoc reads page-oriented PDF documents. It wraps pdfcpu for
// parsing, validation, and resource extraction, and adds a content stream
// text parser that recovers both plain text and positioned fragments for
// layout analysis.
package pdfdoc

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docsift/docsift/model"
)

// Reader is an open PDF document. The underlying file is fully parsed at
// Open time; all accessors operate on the in-memory cross reference table.
type Reader struct {
	path string
	ctx  *pdfmodel.Context
}

// Open parses and validates the PDF at path.
func Open(path string) (*Reader, error) {
	ctx, err := readContext(path)
	if err != nil {
		return nil, err
	}
	return &Reader{path: path, ctx: ctx}, nil
}

func readContext(path string) (*pdfmodel.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("reading pdf %s: %w", path, err)
	}
	return ctx, nil
}

// Path returns the file path the reader was opened from.
func (r *Reader) Path() string { return r.path }

// PageCount returns the number of pages.
func (r *Reader) PageCount() int { return r.ctx.PageCount }

// infoKeys maps PDF information dictionary keys to property names.
var infoKeys = map[string]string{
	"Author":       "author",
	"Title":        "title",
	"Subject":      "subject",
	"Creator":      "creator",
	"Producer":     "producer",
	"CreationDate": "created",
	"ModDate":      "modified",
}

// Properties returns the document information dictionary as a property map.
// A PDF without an information dictionary yields an empty map, not an error.
func (r *Reader) Properties() (model.Properties, error) {
	props := model.Properties{}
	if r.ctx.Info == nil {
		return props, nil
	}

	d, err := r.ctx.DereferenceDict(*r.ctx.Info)
	if err != nil {
		return nil, fmt.Errorf("dereferencing info dict: %w", err)
	}
	if d == nil {
		return props, nil
	}

	for key, name := range infoKeys {
		obj, found := d.Find(key)
		if !found {
			continue
		}
		o, err := r.ctx.Dereference(obj)
		if err != nil {
			continue
		}
		if s, ok := infoString(o); ok && s != "" {
			props[name] = s
		}
	}
	return props, nil
}

func infoString(o types.Object) (string, bool) {
	switch v := o.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return "", false
		}
		return s, true
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}
