// Package pptx provides PPTX (Office Open XML Presentation) document
// parsing.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/docsift/docsift/model"
)

// ShapeKind classifies a slide shape by the content it can carry.
type ShapeKind int

const (
	// ShapePlain is a shape with no text frame, picture, or table.
	ShapePlain ShapeKind = iota
	// ShapeText is a shape with a text frame.
	ShapeText
	// ShapePicture is a picture shape backed by an image part.
	ShapePicture
	// ShapeTable is a graphic frame carrying a table.
	ShapeTable
)

// Shape is one shape of a slide, in z-order. Group members are flattened
// into the traversal at the group's position.
type Shape struct {
	Kind ShapeKind

	// Text is the shape's text frame content, paragraphs joined with
	// newlines. Only meaningful for ShapeText.
	Text string

	// HyperlinkID is the relationship ID of a click action on the shape
	// itself, or empty.
	HyperlinkID string

	// RunLinkIDs are the relationship IDs of run-level hyperlinks within
	// the text frame, in document order.
	RunLinkIDs []string

	// ImageRelID is the relationship ID of the image part backing a
	// picture shape.
	ImageRelID string

	// TableRows holds a table shape's cells as stripped strings.
	TableRows [][]string
}

// Slide is one parsed slide. Number is 1-based presentation order.
type Slide struct {
	Number int
	Shapes []Shape
}

// Reader provides access to PPTX document content.
type Reader struct {
	zipReader *zip.ReadCloser
	slides    []Slide
	slideRels map[int]*relationshipsXML // slide number -> relationships
	coreProps *corePropertiesXML
}

// Open opens a PPTX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		slideRels: make(map[int]*relationshipsXML),
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}
	if err := r.parseSlides(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing slides: %w", err)
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

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
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

	hasSlide := false
	for name := range fileMap {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
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

// parseSlides parses all slide files in presentation order.
func (r *Reader) parseSlides() error {
	var slideFiles []string
	for _, f := range r.zipReader.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			if !strings.Contains(f.Name, "_rels") {
				slideFiles = append(slideFiles, f.Name)
			}
		}
	}

	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})

	for i, slidePath := range slideFiles {
		number := i + 1
		slide, err := r.parseSlide(slidePath, number)
		if err != nil {
			continue
		}
		r.parseSlideRelationships(slidePath, number)
		r.slides = append(r.slides, slide)
	}

	if len(r.slides) == 0 {
		return fmt.Errorf("no slides could be parsed")
	}
	return nil
}

// extractSlideNumber extracts the number from a path like
// "ppt/slides/slide1.xml".
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlide parses a single slide file.
func (r *Reader) parseSlide(slidePath string, number int) (Slide, error) {
	data, err := r.getFileContent(slidePath)
	if err != nil {
		return Slide{}, err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return Slide{}, err
	}

	return Slide{
		Number: number,
		Shapes: parseShapes(sx.CSld.SpTree.Items),
	}, nil
}

// parseShapes converts shape tree items into shapes, flattening groups.
func parseShapes(items []spTreeItem) []Shape {
	var shapes []Shape
	for _, item := range items {
		switch {
		case item.Sp != nil:
			shapes = append(shapes, parseSp(item.Sp))
		case item.Pic != nil:
			shapes = append(shapes, Shape{
				Kind:        ShapePicture,
				HyperlinkID: hlinkID(item.Pic.NvPicPr.CNvPr.HlinkClick),
				ImageRelID:  item.Pic.BlipFill.Blip.Embed,
			})
		case item.GraphicFrame != nil:
			if tbl := item.GraphicFrame.Graphic.GraphicData.Tbl; tbl != nil {
				shapes = append(shapes, Shape{
					Kind:      ShapeTable,
					TableRows: parseTable(tbl),
				})
			} else {
				shapes = append(shapes, Shape{Kind: ShapePlain})
			}
		case item.GrpSp != nil:
			shapes = append(shapes, parseShapes(item.GrpSp.Tree.Items)...)
		}
	}
	return shapes
}

// parseSp converts a <p:sp> element. A shape without a text frame has no
// text capability and is traversed but contributes nothing to text output.
func parseSp(sp *spXML) Shape {
	shape := Shape{
		Kind:        ShapePlain,
		HyperlinkID: hlinkID(sp.NvSpPr.CNvPr.HlinkClick),
	}
	if sp.TxBody == nil {
		return shape
	}

	shape.Kind = ShapeText
	var paras []string
	for _, p := range sp.TxBody.P {
		paras = append(paras, paragraphText(p))
		for _, run := range p.R {
			if run.RPr != nil && run.RPr.HlinkClick != nil && run.RPr.HlinkClick.ID != "" {
				shape.RunLinkIDs = append(shape.RunLinkIDs, run.RPr.HlinkClick.ID)
			}
		}
	}
	shape.Text = strings.Join(paras, "\n")
	return shape
}

// paragraphText joins a paragraph's runs and fields.
func paragraphText(p pXML) string {
	var sb strings.Builder
	for _, run := range p.R {
		sb.WriteString(run.T)
	}
	for _, fld := range p.Fld {
		sb.WriteString(fld.T)
	}
	return sb.String()
}

// parseTable renders a table's cells as stripped string rows. Cell text is
// the cell's paragraphs joined with newlines.
func parseTable(tbl *tblXML) [][]string {
	var rows [][]string
	for _, tr := range tbl.Tr {
		row := make([]string, 0, len(tr.Tc))
		for _, tc := range tr.Tc {
			var parts []string
			if tc.TxBody != nil {
				for _, p := range tc.TxBody.P {
					parts = append(parts, paragraphText(p))
				}
			}
			row = append(row, strings.Join(parts, "\n"))
		}
		rows = append(rows, model.StripCells(row))
	}
	return rows
}

func hlinkID(h *hlinkClickXML) string {
	if h == nil {
		return ""
	}
	return h.ID
}

// parseSlideRelationships parses the relationships part for a slide.
func (r *Reader) parseSlideRelationships(slidePath string, number int) {
	dir := path.Dir(slidePath)
	base := path.Base(slidePath)
	relsPath := path.Join(dir, "_rels", base+".rels")

	data, err := r.getFileContent(relsPath)
	if err != nil {
		return
	}

	rels := &relationshipsXML{}
	if err := xml.Unmarshal(data, rels); err != nil {
		return
	}
	r.slideRels[number] = rels
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}
	r.coreProps = &corePropertiesXML{}
	xml.Unmarshal(data, r.coreProps)
}

// SlideCount returns the number of slides.
func (r *Reader) SlideCount() int {
	return len(r.slides)
}

// Slides returns every slide in presentation order.
func (r *Reader) Slides() []Slide {
	return r.slides
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

// ResolveRelationship resolves a relationship ID against a slide's
// relationship part. external reports whether the target lives outside the
// package, as hyperlink targets do.
func (r *Reader) ResolveRelationship(slideNumber int, id string) (target string, external bool, ok bool) {
	rels := r.slideRels[slideNumber]
	if rels == nil {
		return "", false, false
	}
	for _, rel := range rels.Relationship {
		if rel.ID == id {
			return rel.Target, rel.TargetMode == "External", true
		}
	}
	return "", false, false
}

// MediaBlob reads an image part referenced from a slide. Targets are
// slide-relative, so "../media/image1.png" resolves inside ppt/.
func (r *Reader) MediaBlob(target string) ([]byte, error) {
	name := target
	switch {
	case strings.HasPrefix(name, "../"):
		name = "ppt/" + strings.TrimPrefix(name, "../")
	case !strings.HasPrefix(name, "ppt/"):
		name = path.Join("ppt/slides", name)
	}
	return r.getFileContent(name)
}

// Text returns the text of every shape that has a text frame, across all
// slides in order, joined with newlines.
func (r *Reader) Text() string {
	var parts []string
	for _, slide := range r.slides {
		for _, shape := range slide.Shapes {
			if shape.Kind == ShapeText {
				parts = append(parts, shape.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
