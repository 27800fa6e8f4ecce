package pptx

import "encoding/xml"

// slideXML represents the structure of ppt/slides/slideN.xml.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

// cSldXML represents common slide data.
type cSldXML struct {
	SpTree spTreeXML `xml:"spTree"`
}

// spTreeXML is the shape tree. Children are collected in document order by
// a custom unmarshaler so shape traversal matches the slide's z-order.
type spTreeXML struct {
	Items []spTreeItem
}

// spTreeItem is one ordered child of a shape tree.
type spTreeItem struct {
	Sp           *spXML
	Pic          *picXML
	GraphicFrame *graphicFrameXML
	GrpSp        *grpSpXML
}

// UnmarshalXML collects shapes, pictures, graphic frames, and groups in
// their original order.
func (s *spTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				var sp spXML
				if err := d.DecodeElement(&sp, &t); err != nil {
					return err
				}
				s.Items = append(s.Items, spTreeItem{Sp: &sp})
			case "pic":
				var pic picXML
				if err := d.DecodeElement(&pic, &t); err != nil {
					return err
				}
				s.Items = append(s.Items, spTreeItem{Pic: &pic})
			case "graphicFrame":
				var gf graphicFrameXML
				if err := d.DecodeElement(&gf, &t); err != nil {
					return err
				}
				s.Items = append(s.Items, spTreeItem{GraphicFrame: &gf})
			case "grpSp":
				var grp grpSpXML
				if err := d.DecodeElement(&grp, &t); err != nil {
					return err
				}
				s.Items = append(s.Items, spTreeItem{GrpSp: &grp})
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

// grpSpXML is a shape group. Its children use the same ordered collection
// as the shape tree.
type grpSpXML struct {
	Tree spTreeXML
}

func (g *grpSpXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return g.Tree.UnmarshalXML(d, start)
}

// spXML represents a shape (<p:sp>).
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

// nvSpPrXML holds non-visual shape properties.
type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

// cNvPrXML holds the shape name and an optional click hyperlink.
type cNvPrXML struct {
	ID         string        `xml:"id,attr"`
	Name       string        `xml:"name,attr"`
	HlinkClick *hlinkClickXML `xml:"hlinkClick"`
}

// hlinkClickXML is a hyperlink reference. ID is the r:id relationship.
type hlinkClickXML struct {
	ID string `xml:"id,attr"`
}

// txBodyXML holds the text content of a shape or table cell.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a text paragraph (<a:p>).
type pXML struct {
	R   []rXML   `xml:"r"`
	Fld []fldXML `xml:"fld"`
}

// rXML represents a text run (<a:r>).
type rXML struct {
	RPr *rPrXML `xml:"rPr"`
	T   string  `xml:"t"`
}

// rPrXML holds run properties; only the hyperlink is of interest here.
type rPrXML struct {
	HlinkClick *hlinkClickXML `xml:"hlinkClick"`
}

// fldXML represents a field such as a slide number.
type fldXML struct {
	T string `xml:"t"`
}

// picXML represents a picture shape (<p:pic>).
type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"nvPicPr"`
	BlipFill blipFillXML `xml:"blipFill"`
}

// nvPicPrXML holds non-visual picture properties.
type nvPicPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

// blipFillXML references the image part backing a picture.
type blipFillXML struct {
	Blip blipXML `xml:"blip"`
}

// blipXML carries the r:embed relationship ID of the image part.
type blipXML struct {
	Embed string `xml:"embed,attr"`
}

// graphicFrameXML represents a graphic frame, the carrier for tables.
type graphicFrameXML struct {
	Graphic graphicXML `xml:"graphic"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	Tbl *tblXML `xml:"tbl"`
}

// tblXML represents a table (<a:tbl>).
type tblXML struct {
	Tr []trXML `xml:"tr"`
}

// trXML represents a table row.
type trXML struct {
	Tc []tcXML `xml:"tc"`
}

// tcXML represents a table cell.
type tcXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

// relationshipsXML represents a package relationships part.
type relationshipsXML struct {
	Relationship []relationshipXML `xml:"Relationship"`
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
