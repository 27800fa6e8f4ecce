package model

import "errors"

// Kind identifies the structural family of a document. It is fixed when the
// file is loaded, based on its declared type, and never changes for the
// lifetime of the document.
type Kind int

const (
	// KindUnknown indicates an unrecognized document kind.
	KindUnknown Kind = iota
	// KindPaged indicates a page-oriented document (PDF).
	KindPaged
	// KindFlowed indicates a paragraph/table-oriented document (DOCX).
	KindFlowed
	// KindSlides indicates a slide/shape-oriented document (PPTX).
	KindSlides
)

// ErrUnsupportedFormat reports a document kind outside the three supported
// variants. The loader validates the kind up front, so extraction hitting
// this error means the engine was constructed around a handle the loader
// never produced.
var ErrUnsupportedFormat = errors.New("unsupported file format: only PDF, DOCX, and PPTX are supported")

// String returns the conventional upper-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPaged:
		return "PDF"
	case KindFlowed:
		return "DOCX"
	case KindSlides:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// KindForExtension maps a lower-case file extension (without the dot) to a
// document kind. Unrecognized extensions map to KindUnknown.
func KindForExtension(ext string) Kind {
	switch ext {
	case "pdf":
		return KindPaged
	case "docx":
		return KindFlowed
	case "pptx":
		return KindSlides
	default:
		return KindUnknown
	}
}
