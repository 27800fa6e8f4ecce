package extract

import (
	"fmt"

	"github.com/docsift/docsift/imaging"
	"github.com/docsift/docsift/model"
	"github.com/docsift/docsift/tables"
)

// pagedStrategy extracts content from page-oriented documents (PDF).
type pagedStrategy struct {
	engine *Engine
}

func (s *pagedStrategy) text() (model.ExtractedText, error) {
	r := s.engine.handle.PDF

	props, err := r.Properties()
	if err != nil {
		return model.ExtractedText{}, fmt.Errorf("reading pdf metadata: %w", err)
	}
	return model.ExtractedText{
		Content: r.Text(),
		Meta:    NormalizeMetadata(props),
	}, nil
}

func (s *pagedStrategy) images() ([]model.Image, error) {
	pageImages, err := s.engine.handle.PDF.Images()
	if err != nil {
		return nil, err
	}

	var out []model.Image
	for _, pi := range pageImages {
		info, err := imaging.Sniff(pi.Data)
		if err != nil {
			s.engine.log.Warn().
				Err(err).
				Int("page", pi.PageNr).
				Str("file_type", pi.FileType).
				Msg("skipping undecodable image")
			continue
		}
		out = append(out, model.Image{
			Data:       pi.Data,
			Format:     info.Format,
			Resolution: info.Resolution(),
			Location:   pi.PageNr,
		})
	}
	return out, nil
}

func (s *pagedStrategy) tables() ([]model.Table, error) {
	fragsByPage, err := s.engine.handle.PDF.FragmentsByPage()
	if err != nil {
		return nil, err
	}

	det := tables.NewDetector()
	var out []model.Table
	for _, frags := range fragsByPage {
		out = append(out, det.Detect(frags)...)
	}
	return out, nil
}

func (s *pagedStrategy) links() ([]model.Link, error) {
	return s.engine.handle.PDF.Links()
}
