// Package display renders extraction results for the terminal: truncated
// text, kind-filtered metadata, per-item image and link lines, and tables
// drawn as bordered grids.
package display

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/docsift/docsift/model"
)

// textPreviewLimit is the number of runes of extracted text shown before
// the preview is cut off.
const textPreviewLimit = 500

// Data bundles the four extraction results for presentation.
type Data struct {
	Text   model.ExtractedText
	Images []model.Image
	Links  []model.Link
	Tables []model.Table
}

// Printer writes extraction results to a terminal-oriented writer.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// metadataKeys lists, per document kind, which metadata fields are shown.
var metadataKeys = map[model.Kind][]string{
	model.KindPaged:  {"author", "title", "created"},
	model.KindSlides: {"author", "title", "created", "last_modified_by"},
	model.KindFlowed: {"author", "title", "created", "last_modified_by"},
}

// locationNames maps a document kind to the label of its location field.
var locationNames = map[model.Kind]string{
	model.KindPaged:  "Page_number",
	model.KindSlides: "Slide_number",
	model.KindFlowed: "Section",
}

// Show renders all extracted data for a document of the given kind.
func (p *Printer) Show(kind model.Kind, data Data) {
	name := kind.String()
	fmt.Fprintf(p.w, "\n========== Extracted Data from %s ==========\n\n", name)

	fmt.Fprint(p.w, "----- Extracted Text -----\n\n")
	fmt.Fprintln(p.w, truncate(data.Text.Content, textPreviewLimit))

	p.showMetadata(kind, data.Text.Meta)

	if len(data.Images) > 0 {
		fmt.Fprintf(p.w, "----- Extracted Images (%s) -----\n\n", name)
		for i, img := range data.Images {
			fmt.Fprintf(p.w, "Image %d: Format: %s, Resolution: %s, %s: %s\n",
				i+1, img.Format, img.Resolution, locationNames[kind], locationValue(img.Location))
		}
		fmt.Fprint(p.w, "\n")
	}

	if len(data.Links) > 0 {
		fmt.Fprint(p.w, "----- Extracted Links -----\n\n")
		for _, link := range data.Links {
			fmt.Fprintf(p.w, "URL: %s (%s %s)\n",
				link.URL, locationNames[kind], locationValue(link.Location))
		}
		fmt.Fprint(p.w, "\n")
	}

	if len(data.Tables) > 0 {
		fmt.Fprintf(p.w, "----- Extracted Tables (%s) -----\n\n", name)
		for i, table := range data.Tables {
			fmt.Fprintf(p.w, "Table %d:\n\n", i+1)
			p.renderTable(table)
			fmt.Fprint(p.w, "\n-----------------------------\n\n")
		}
	}

	fmt.Fprintf(p.w, "========== End of Extraction for %s ==========\n\n", name)
}

// showMetadata prints the metadata fields allowed for the kind, in
// canonical field order.
func (p *Printer) showMetadata(kind model.Kind, meta model.Metadata) {
	allowed := make(map[string]bool)
	for _, key := range metadataKeys[kind] {
		allowed[key] = true
	}

	for _, field := range meta.Fields() {
		if allowed[field[0]] {
			fmt.Fprintf(p.w, "%s: %s\n", capitalize(field[0]), field[1])
		}
	}
}

// renderTable draws a table as a bordered grid with the first row as
// header.
func (p *Printer) renderTable(table model.Table) {
	tw := tablewriter.NewWriter(p.w)
	tw.SetHeader(table.Header())
	if table.RowCount() > 1 {
		tw.AppendBulk(table.Rows[1:])
	}
	tw.SetRowLine(true)
	tw.Render()
}

// locationValue formats a location for display. Zero means the kind
// records no location.
func locationValue(location int) string {
	if location == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", location)
}

// truncate cuts s to limit runes, appending an ellipsis when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// capitalize upper-cases the first letter of an ASCII field name.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
