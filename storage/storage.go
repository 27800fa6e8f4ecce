// Package storage persists extraction results. Two sinks are provided: a
// filesystem sink writing one directory per document, and a SQL sink
// writing to an SQLite database.
package storage

import (
	"strconv"

	"github.com/docsift/docsift/model"
)

// Sink persists the results of one extraction run.
type Sink interface {
	Save() error
}

// extractor is the subset of the extraction engine a sink pulls from.
type extractor interface {
	Text() (model.ExtractedText, error)
	Images() ([]model.Image, error)
	Tables() ([]model.Table, error)
	Links() ([]model.Link, error)
}

// locationLabel formats a link or image location for the file sink.
// Zero means the document kind records no location.
func locationLabel(location int) string {
	if location == 0 {
		return "N/A"
	}
	return strconv.Itoa(location)
}
