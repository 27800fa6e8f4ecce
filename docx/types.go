package docx

import "encoding/xml"

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Only body-level paragraphs are
// collected here; paragraphs nested inside table cells belong to the table.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// paragraphXML represents a paragraph element (<w:p>). Runs and hyperlinks
// are collected in document order by a custom unmarshaler so that text and
// link extraction preserve the author's sequence.
type paragraphXML struct {
	Items []paragraphItem
}

// paragraphItem is one ordered child of a paragraph.
type paragraphItem struct {
	Run  *runXML
	Link *hyperlinkXML
}

// UnmarshalXML collects runs and hyperlinks in their original order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				var run runXML
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, paragraphItem{Run: &run})
			case "hyperlink":
				var link hyperlinkXML
				if err := d.DecodeElement(&link, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, paragraphItem{Link: &link})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Text   []textXML  `xml:"t"`
	Tabs   []tabXML   `xml:"tab"`
	Breaks []breakXML `xml:"br"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"`
	Value string `xml:",chardata"`
}

// tabXML represents a tab character.
type tabXML struct{}

// breakXML represents a line or page break.
type breakXML struct {
	Type string `xml:"type,attr"`
}

// hyperlinkXML represents a hyperlink (<w:hyperlink>). ID is the r:id
// relationship reference resolved against the document relationships.
type hyperlinkXML struct {
	ID   string   `xml:"id,attr"`
	Runs []runXML `xml:"r"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// relationshipsXML represents a package relationships part.
type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML is one relationship entry.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corePropertiesXML represents docProps/core.xml Dublin Core metadata.
type corePropertiesXML struct {
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Creator        string `xml:"creator"`
	Keywords       string `xml:"keywords"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
	LastModifiedBy string `xml:"lastModifiedBy"`
}
