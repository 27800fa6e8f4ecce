// Package docx provides DOCX (Office Open XML) document parsing.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/docsift/docsift/model"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader *zip.ReadCloser
	document  *documentXML
	rels      *relationshipsXML
	coreProps *corePropertiesXML
}

// Paragraph is one body-level paragraph with its text and the relationship
// IDs of any hyperlinks it contains, in document order.
type Paragraph struct {
	Text    string
	LinkIDs []string
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{zipReader: zr}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}
	if err := r.parseRelationships(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	r.parseCoreProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		// The relationships part is optional.
		return nil
	}
	r.rels = &relationshipsXML{}
	return xml.Unmarshal(data, r.rels)
}

func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}
	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	return nil
}

func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}
	r.coreProps = &corePropertiesXML{}
	xml.Unmarshal(data, r.coreProps)
}

// Paragraphs returns every body-level paragraph in document order. Empty
// paragraphs are included; they carry document structure.
func (r *Reader) Paragraphs() []Paragraph {
	if r.document == nil || r.document.Body == nil {
		return nil
	}

	out := make([]Paragraph, 0, len(r.document.Body.Paragraphs))
	for _, p := range r.document.Body.Paragraphs {
		out = append(out, parseParagraph(p))
	}
	return out
}

func parseParagraph(p paragraphXML) Paragraph {
	var parsed Paragraph
	var sb strings.Builder

	for _, item := range p.Items {
		switch {
		case item.Run != nil:
			sb.WriteString(runText(*item.Run))
		case item.Link != nil:
			if item.Link.ID != "" {
				parsed.LinkIDs = append(parsed.LinkIDs, item.Link.ID)
			}
			for _, run := range item.Link.Runs {
				sb.WriteString(runText(run))
			}
		}
	}
	parsed.Text = sb.String()
	return parsed
}

// runText extracts the text of a run, expanding tabs and breaks.
func runText(run runXML) string {
	var parts []string
	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}
	for range run.Tabs {
		parts = append(parts, "\t")
	}
	for _, br := range run.Breaks {
		if br.Type == "page" {
			parts = append(parts, "\n\n")
		} else {
			parts = append(parts, "\n")
		}
	}
	return strings.Join(parts, "")
}

// Text returns the document text: every body paragraph joined with a
// newline, empty paragraphs included.
func (r *Reader) Text() string {
	paras := r.Paragraphs()
	parts := make([]string, len(paras))
	for i, p := range paras {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// Tables returns every body-level table in document order. Cell text is the
// cell's paragraphs joined with newlines, stripped of surrounding
// whitespace.
func (r *Reader) Tables() []model.Table {
	if r.document == nil || r.document.Body == nil {
		return nil
	}

	var tables []model.Table
	for _, tbl := range r.document.Body.Tables {
		var rows [][]string
		for _, tr := range tbl.Rows {
			row := make([]string, 0, len(tr.Cells))
			for _, tc := range tr.Cells {
				var parts []string
				for _, p := range tc.Paragraphs {
					parts = append(parts, parseParagraph(p).Text)
				}
				row = append(row, strings.Join(parts, "\n"))
			}
			rows = append(rows, model.StripCells(row))
		}
		tables = append(tables, model.Table{Rows: rows})
	}
	return tables
}

// Properties returns the core document properties that are present.
func (r *Reader) Properties() model.Properties {
	props := model.Properties{}
	if r.coreProps == nil {
		return props
	}

	set := func(name, value string) {
		if value != "" {
			props[name] = value
		}
	}
	set("author", r.coreProps.Creator)
	set("title", r.coreProps.Title)
	set("subject", r.coreProps.Subject)
	set("keywords", r.coreProps.Keywords)
	set("created", r.coreProps.Created)
	set("modified", r.coreProps.Modified)
	set("last_modified_by", r.coreProps.LastModifiedBy)
	return props
}

// ResolveRelationship returns the target of a document relationship by ID.
func (r *Reader) ResolveRelationship(id string) (string, bool) {
	if r.rels == nil {
		return "", false
	}
	for _, rel := range r.rels.Relationships {
		if rel.ID == id {
			return rel.Target, true
		}
	}
	return "", false
}

// HyperlinkTargets returns the resolved URL of every hyperlink, walking
// paragraphs in document order. Hyperlinks whose relationship is missing
// are skipped.
func (r *Reader) HyperlinkTargets() []string {
	var urls []string
	for _, p := range r.Paragraphs() {
		for _, id := range p.LinkIDs {
			if target, ok := r.ResolveRelationship(id); ok {
				urls = append(urls, target)
			}
		}
	}
	return urls
}

// ImageParts returns the raw bytes of every image part referenced by the
// document relationships, in relationship file order.
func (r *Reader) ImageParts() ([][]byte, error) {
	if r.rels == nil {
		return nil, nil
	}

	var blobs [][]byte
	for _, rel := range r.rels.Relationships {
		if !strings.Contains(rel.Target, "image") || rel.TargetMode == "External" {
			continue
		}
		name := path.Join("word", rel.Target)
		data, err := r.getFileContent(name)
		if err != nil {
			return nil, fmt.Errorf("reading image part %s: %w", name, err)
		}
		blobs = append(blobs, data)
	}
	return blobs, nil
}
