package extract

import (
	"github.com/docsift/docsift/imaging"
	"github.com/docsift/docsift/model"
)

// flowedStrategy extracts content from paragraph-oriented documents (DOCX).
// Flowed documents record no page positions, so images and links carry
// location 0.
type flowedStrategy struct {
	engine *Engine
}

func (s *flowedStrategy) text() (model.ExtractedText, error) {
	r := s.engine.handle.Word
	return model.ExtractedText{
		Content: r.Text(),
		Meta:    NormalizeMetadata(r.Properties()),
	}, nil
}

func (s *flowedStrategy) images() ([]model.Image, error) {
	blobs, err := s.engine.handle.Word.ImageParts()
	if err != nil {
		return nil, err
	}

	var out []model.Image
	for i, blob := range blobs {
		info, err := imaging.Sniff(blob)
		if err != nil {
			s.engine.log.Warn().
				Err(err).
				Int("part", i).
				Msg("skipping undecodable image")
			continue
		}
		out = append(out, model.Image{
			Data:       blob,
			Format:     info.Format,
			Resolution: info.Resolution(),
		})
	}
	return out, nil
}

func (s *flowedStrategy) tables() ([]model.Table, error) {
	return s.engine.handle.Word.Tables(), nil
}

func (s *flowedStrategy) links() ([]model.Link, error) {
	var out []model.Link
	for _, url := range s.engine.handle.Word.HyperlinkTargets() {
		out = append(out, model.Link{URL: url})
	}
	return out, nil
}
