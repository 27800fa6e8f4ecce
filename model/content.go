package model

import (
	"fmt"
	"strings"
)

// ExtractedText is the concatenated textual content of a document together
// with its normalized metadata.
type ExtractedText struct {
	Content string
	Meta    Metadata
}

// Image is one embedded image in document traversal order. Location is the
// 1-based page number (paged documents) or slide number (slide documents);
// it is 0 for kinds that record no image location (flowed documents).
type Image struct {
	Data       []byte
	Format     string // lowercased codec name, e.g. "png", "jpeg"
	Resolution string // "WIDTHxHEIGHT"
	Location   int
}

// Link is one hyperlink in document traversal order. Location follows the
// same convention as Image.Location. URL may be empty: a paged link
// annotation without a URI is still emitted.
type Link struct {
	URL      string
	Location int
}

// Table is an ordered sequence of rows of stripped cell strings. Row 0 is
// treated as the header by downstream consumers, but it is not marked
// specially here.
type Table struct {
	Rows [][]string
}

// RowCount returns the number of rows.
func (t Table) RowCount() int { return len(t.Rows) }

// ColCount returns the number of columns in the first row.
func (t Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

// TextFragment is a positioned run of text on a page, in PDF user-space
// coordinates (origin bottom-left, Y increasing upward). Fragments feed the
// layout-aware table detector.
type TextFragment struct {
	Text   string
	X      float64 // left edge
	Y      float64 // bottom edge
	Width  float64
	Height float64
}

// Left returns the left edge X coordinate.
func (f TextFragment) Left() float64 { return f.X }

// Right returns the right edge X coordinate.
func (f TextFragment) Right() float64 { return f.X + f.Width }

// Bottom returns the bottom edge Y coordinate.
func (f TextFragment) Bottom() float64 { return f.Y }

// Top returns the top edge Y coordinate.
func (f TextFragment) Top() float64 { return f.Y + f.Height }

// CenterX returns the horizontal center.
func (f TextFragment) CenterX() float64 { return f.X + f.Width/2 }

// CenterY returns the vertical center.
func (f TextFragment) CenterY() float64 { return f.Y + f.Height/2 }

// Resolution formats pixel dimensions as the canonical "WIDTHxHEIGHT"
// string used by Image.Resolution.
func Resolution(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// StripCells trims leading and trailing whitespace from every cell of a row.
func StripCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
