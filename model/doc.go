// Package model defines the shared vocabulary for extracted document
// content: the document kind, the raw and normalized metadata records, and
// the four result shapes (text, images, tables, links) produced by the
// extraction engine.
//
// The types here are plain values. They carry no behavior beyond small
// accessors, so every other package can depend on model without pulling in
// a document backend.
package model
