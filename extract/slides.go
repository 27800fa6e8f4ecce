package extract

import (
	"github.com/docsift/docsift/imaging"
	"github.com/docsift/docsift/model"
	"github.com/docsift/docsift/pptx"
)

// slidesStrategy extracts content from slide-oriented documents (PPTX).
// Locations are 1-based slide numbers.
type slidesStrategy struct {
	engine *Engine
}

func (s *slidesStrategy) text() (model.ExtractedText, error) {
	r := s.engine.handle.Deck
	return model.ExtractedText{
		Content: r.Text(),
		Meta:    NormalizeMetadata(r.Properties()),
	}, nil
}

func (s *slidesStrategy) images() ([]model.Image, error) {
	r := s.engine.handle.Deck

	var out []model.Image
	for _, slide := range r.Slides() {
		for _, shape := range slide.Shapes {
			if shape.Kind != pptx.ShapePicture || shape.ImageRelID == "" {
				continue
			}

			target, external, ok := r.ResolveRelationship(slide.Number, shape.ImageRelID)
			if !ok || external {
				s.engine.log.Warn().
					Int("slide", slide.Number).
					Str("rel_id", shape.ImageRelID).
					Msg("skipping picture with unresolvable image part")
				continue
			}
			blob, err := r.MediaBlob(target)
			if err != nil {
				s.engine.log.Warn().
					Err(err).
					Int("slide", slide.Number).
					Str("target", target).
					Msg("skipping unreadable image part")
				continue
			}
			info, err := imaging.Sniff(blob)
			if err != nil {
				s.engine.log.Warn().
					Err(err).
					Int("slide", slide.Number).
					Str("target", target).
					Msg("skipping undecodable image")
				continue
			}
			out = append(out, model.Image{
				Data:       blob,
				Format:     info.Format,
				Resolution: info.Resolution(),
				Location:   slide.Number,
			})
		}
	}
	return out, nil
}

func (s *slidesStrategy) tables() ([]model.Table, error) {
	var out []model.Table
	for _, slide := range s.engine.handle.Deck.Slides() {
		for _, shape := range slide.Shapes {
			if shape.Kind == pptx.ShapeTable {
				out = append(out, model.Table{Rows: shape.TableRows})
			}
		}
	}
	return out, nil
}

func (s *slidesStrategy) links() ([]model.Link, error) {
	r := s.engine.handle.Deck

	var out []model.Link
	emit := func(slideNumber int, relID string) {
		target, external, ok := r.ResolveRelationship(slideNumber, relID)
		if !ok || !external || target == "" {
			return
		}
		out = append(out, model.Link{URL: target, Location: slideNumber})
	}

	for _, slide := range r.Slides() {
		for _, shape := range slide.Shapes {
			if shape.HyperlinkID != "" {
				emit(slide.Number, shape.HyperlinkID)
			}
			for _, id := range shape.RunLinkIDs {
				emit(slide.Number, id)
			}
		}
	}
	return out, nil
}
