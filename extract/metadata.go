package extract

import "github.com/docsift/docsift/model"

// NormalizeMetadata reduces a raw property map to the four canonical
// metadata fields. Fields the source does not carry become empty strings.
func NormalizeMetadata(props model.Properties) model.Metadata {
	return model.Metadata{
		Author:         props["author"],
		Created:        props["created"],
		LastModifiedBy: props["last_modified_by"],
		Title:          props["title"],
	}
}
