package model

// Properties is the raw properties record of a document source. It carries
// only the fields the source object actually exposes; a field the source
// lacks is simply not present in the map.
type Properties map[string]string

// Metadata carries the four normalized document metadata fields surfaced
// downstream. Fields missing from the source resolve to the empty string,
// never to an error.
type Metadata struct {
	Author         string
	Created        string
	LastModifiedBy string
	Title          string
}

// Fields returns the metadata as ordered name/value pairs, in canonical
// order. Empty values are included; downstream sinks decide what to omit.
func (m Metadata) Fields() [][2]string {
	return [][2]string{
		{"author", m.Author},
		{"created", m.Created},
		{"last_modified_by", m.LastModifiedBy},
		{"title", m.Title},
	}
}

// Field returns the value for a conceptual field name, or "" if the name is
// not one of the four metadata fields.
func (m Metadata) Field(name string) string {
	switch name {
	case "author":
		return m.Author
	case "created":
		return m.Created
	case "last_modified_by":
		return m.LastModifiedBy
	case "title":
		return m.Title
	default:
		return ""
	}
}
