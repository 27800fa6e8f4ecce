// Package extract implements the four content extraction operations over a
// loaded document: text with metadata, images, tables, and links. The
// strategy for a document is chosen once, from the handle's kind, when the
// engine is built.
package extract

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/docsift/docsift/loader"
	"github.com/docsift/docsift/model"
)

// strategy is the per-kind implementation of the four operations.
type strategy interface {
	text() (model.ExtractedText, error)
	images() ([]model.Image, error)
	tables() ([]model.Table, error)
	links() ([]model.Link, error)
}

// Engine extracts content from one document. Construction never fails: an
// engine built around a handle of unknown kind reports the unsupported
// format from every operation instead.
type Engine struct {
	handle   *loader.Handle
	strategy strategy
	log      zerolog.Logger
}

// New builds an engine for the handle's kind.
func New(h *loader.Handle) *Engine {
	e := &Engine{handle: h, log: zerolog.Nop()}
	switch h.Kind {
	case model.KindPaged:
		e.strategy = &pagedStrategy{engine: e}
	case model.KindFlowed:
		e.strategy = &flowedStrategy{engine: e}
	case model.KindSlides:
		e.strategy = &slidesStrategy{engine: e}
	}
	return e
}

// WithLogger sets the logger used for per-item warnings and returns the
// engine for chaining.
func (e *Engine) WithLogger(log zerolog.Logger) *Engine {
	e.log = log
	return e
}

// Kind returns the document kind the engine was built for.
func (e *Engine) Kind() model.Kind {
	return e.handle.Kind
}

// Text returns the document's text and normalized metadata.
func (e *Engine) Text() (model.ExtractedText, error) {
	if e.strategy == nil {
		return model.ExtractedText{}, fmt.Errorf("extracting text: %w", model.ErrUnsupportedFormat)
	}
	return e.strategy.text()
}

// Images returns the document's embedded images in traversal order.
func (e *Engine) Images() ([]model.Image, error) {
	if e.strategy == nil {
		return nil, fmt.Errorf("extracting images: %w", model.ErrUnsupportedFormat)
	}
	return e.strategy.images()
}

// Tables returns the document's tables in traversal order.
func (e *Engine) Tables() ([]model.Table, error) {
	if e.strategy == nil {
		return nil, fmt.Errorf("extracting tables: %w", model.ErrUnsupportedFormat)
	}
	return e.strategy.tables()
}

// Links returns the document's hyperlinks in traversal order.
func (e *Engine) Links() ([]model.Link, error) {
	if e.strategy == nil {
		return nil, fmt.Errorf("extracting links: %w", model.ErrUnsupportedFormat)
	}
	return e.strategy.links()
}
