package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/docsift/docsift/loader"
	"github.com/docsift/docsift/model"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{B: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func writeZipFile(t *testing.T, path string, parts map[string][]byte, order []string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(parts[name])
	}
	zw.Close()
	f.Close()
}

// buildDOCX writes a DOCX with two paragraphs, one hyperlink, one table,
// and one embedded image.
func buildDOCX(t *testing.T, dir string, imageBlob []byte) string {
	t.Helper()
	path := filepath.Join(dir, "doc.docx")

	document := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>
<w:p><w:r><w:t>Hello</w:t></w:r></w:p>
<w:p><w:hyperlink r:id="rId4"><w:r><w:t>World</w:t></w:r></w:hyperlink></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>k</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>v</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body></w:document>`

	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/w" TargetMode="External"/>
<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

	core := `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:creator>Ada</dc:creator></cp:coreProperties>`

	writeZipFile(t, path, map[string][]byte{
		"[Content_Types].xml":            []byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`),
		"word/document.xml":              []byte(document),
		"word/_rels/document.xml.rels":   []byte(rels),
		"docProps/core.xml":              []byte(core),
		"word/media/image1.png":          imageBlob,
	}, []string{
		"[Content_Types].xml",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"docProps/core.xml",
		"word/media/image1.png",
	})
	return path
}

// buildPPTX writes a two slide PPTX: slide 1 has a text shape and a run
// hyperlink, slide 2 has a picture and a table.
func buildPPTX(t *testing.T, dir string, imageBlob []byte) string {
	t.Helper()
	path := filepath.Join(dir, "deck.pptx")

	slideWrap := func(spTree string) []byte {
		return []byte(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><p:cSld><p:spTree>` + spTree + `</p:spTree></p:cSld></p:sld>`)
	}

	slide1 := slideWrap(`<p:sp><p:nvSpPr><p:cNvPr id="1" name="t"/></p:nvSpPr><p:txBody><a:p><a:r><a:rPr><a:hlinkClick r:id="rId2"/></a:rPr><a:t>Agenda</a:t></a:r></a:p></p:txBody></p:sp>`)
	slide2 := slideWrap(`<p:pic><p:nvPicPr><p:cNvPr id="2" name="p"/></p:nvPicPr><p:blipFill><a:blip r:embed="rId3"/></p:blipFill></p:pic>` +
		`<p:graphicFrame><a:graphic><a:graphicData><a:tbl><a:tr><a:tc><a:txBody><a:p><a:r><a:t>q</a:t></a:r></a:p></a:txBody></a:tc></a:tr><a:tr><a:tc><a:txBody><a:p><a:r><a:t>r</a:t></a:r></a:p></a:txBody></a:tc></a:tr></a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)

	rels1 := []byte(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/agenda" TargetMode="External"/></Relationships>`)
	rels2 := []byte(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image1.png"/></Relationships>`)

	core := []byte(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Deck</dc:title></cp:coreProperties>`)

	writeZipFile(t, path, map[string][]byte{
		"[Content_Types].xml":                 []byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`),
		"ppt/presentation.xml":                []byte(`<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`),
		"ppt/slides/slide1.xml":               slide1,
		"ppt/slides/slide2.xml":               slide2,
		"ppt/slides/_rels/slide1.xml.rels":    rels1,
		"ppt/slides/_rels/slide2.xml.rels":    rels2,
		"ppt/media/image1.png":                imageBlob,
		"docProps/core.xml":                   core,
	}, []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/slides/_rels/slide2.xml.rels",
		"ppt/media/image1.png",
		"docProps/core.xml",
	})
	return path
}

func loadHandle(t *testing.T, path string) *loader.Handle {
	t.Helper()
	h, err := loader.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestUnsupportedKind(t *testing.T) {
	e := New(&loader.Handle{Kind: model.KindUnknown})

	if _, err := e.Text(); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("Text err = %v", err)
	}
	if _, err := e.Images(); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("Images err = %v", err)
	}
	if _, err := e.Tables(); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("Tables err = %v", err)
	}
	if _, err := e.Links(); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("Links err = %v", err)
	}
}

func TestFlowedText(t *testing.T) {
	h := loadHandle(t, buildDOCX(t, t.TempDir(), encodePNG(t, 2, 3)))
	e := New(h)

	text, err := e.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text.Content != "Hello\nWorld" {
		t.Errorf("Content = %q, want Hello\\nWorld", text.Content)
	}
	if text.Meta.Author != "Ada" {
		t.Errorf("Author = %q, want Ada", text.Meta.Author)
	}
	if text.Meta.Title != "" || text.Meta.Created != "" || text.Meta.LastModifiedBy != "" {
		t.Errorf("missing metadata fields should be empty, got %+v", text.Meta)
	}
}

func TestFlowedImages(t *testing.T) {
	h := loadHandle(t, buildDOCX(t, t.TempDir(), encodePNG(t, 2, 3)))

	images, err := New(h).Images()
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	img := images[0]
	if img.Format != "png" || img.Resolution != "2x3" {
		t.Errorf("image = %s %s, want png 2x3", img.Format, img.Resolution)
	}
	if img.Location != 0 {
		t.Errorf("Location = %d, want 0 for flowed documents", img.Location)
	}
}

func TestFlowedUndecodableImageSkipped(t *testing.T) {
	h := loadHandle(t, buildDOCX(t, t.TempDir(), []byte("not an image")))

	images, err := New(h).Images()
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images, want undecodable blob skipped", len(images))
	}
}

func TestFlowedTablesAndLinks(t *testing.T) {
	h := loadHandle(t, buildDOCX(t, t.TempDir(), encodePNG(t, 2, 3)))
	e := New(h)

	tables, err := e.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 1 || tables[0].Rows[0][0] != "k" || tables[0].Rows[0][1] != "v" {
		t.Errorf("tables = %+v", tables)
	}

	links, err := e.Links()
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://example.com/w" || links[0].Location != 0 {
		t.Errorf("links = %+v", links)
	}
}

func TestSlidesText(t *testing.T) {
	h := loadHandle(t, buildPPTX(t, t.TempDir(), encodePNG(t, 4, 4)))
	e := New(h)

	text, err := e.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text.Content != "Agenda" {
		t.Errorf("Content = %q, want Agenda", text.Content)
	}
	if text.Meta.Title != "Deck" || text.Meta.Author != "" {
		t.Errorf("Meta = %+v", text.Meta)
	}
}

func TestSlidesImages(t *testing.T) {
	h := loadHandle(t, buildPPTX(t, t.TempDir(), encodePNG(t, 4, 4)))

	images, err := New(h).Images()
	if err != nil {
		t.Fatalf("Images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	if images[0].Location != 2 {
		t.Errorf("Location = %d, want slide 2", images[0].Location)
	}
	if images[0].Format != "png" || images[0].Resolution != "4x4" {
		t.Errorf("image = %s %s", images[0].Format, images[0].Resolution)
	}
}

func TestSlidesTablesAndLinks(t *testing.T) {
	h := loadHandle(t, buildPPTX(t, t.TempDir(), encodePNG(t, 4, 4)))
	e := New(h)

	tables, err := e.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 1 || tables[0].RowCount() != 2 || tables[0].Rows[0][0] != "q" {
		t.Errorf("tables = %+v", tables)
	}

	links, err := e.Links()
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://example.com/agenda" || links[0].Location != 1 {
		t.Errorf("links = %+v", links)
	}
}

func TestExtractionIsDeterministic(t *testing.T) {
	h := loadHandle(t, buildPPTX(t, t.TempDir(), encodePNG(t, 4, 4)))
	e := New(h)

	first, err := e.Text()
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Text()
	if err != nil {
		t.Fatal(err)
	}
	if first.Content != second.Content || first.Meta != second.Meta {
		t.Error("repeated extraction differs")
	}
}

func TestNormalizeMetadata(t *testing.T) {
	meta := NormalizeMetadata(model.Properties{
		"author":  "A",
		"title":   "T",
		"subject": "ignored",
	})
	if meta.Author != "A" || meta.Title != "T" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Created != "" || meta.LastModifiedBy != "" {
		t.Errorf("missing fields should normalize to empty, got %+v", meta)
	}
}
