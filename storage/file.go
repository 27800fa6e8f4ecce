package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileStorage writes extraction results into one directory:
//
//	extracted_text.txt
//	metadata.txt
//	extracted_links.txt
//	images/image_N.<format>
//	table_N.csv
type FileStorage struct {
	extractor extractor
	dir       string
	log       zerolog.Logger
}

// NewFileStorage creates a file storage sink writing under dir. The directory is
// created on Save.
func NewFileStorage(ex extractor, dir string) *FileStorage {
	return &FileStorage{extractor: ex, dir: dir, log: zerolog.Nop()}
}

// WithLogger sets the logger used for per-item warnings and returns the
// sink for chaining.
func (s *FileStorage) WithLogger(log zerolog.Logger) *FileStorage {
	s.log = log
	return s
}

// Save extracts all content and writes it under the sink's directory.
func (s *FileStorage) Save() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := s.saveText(); err != nil {
		return err
	}
	if err := s.saveLinks(); err != nil {
		return err
	}
	if err := s.saveImages(); err != nil {
		return err
	}
	if err := s.saveTables(); err != nil {
		return err
	}

	s.log.Info().Str("dir", s.dir).Msg("saved extraction to file system")
	return nil
}

func (s *FileStorage) saveText() error {
	text, err := s.extractor.Text()
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, "extracted_text.txt")
	if err := os.WriteFile(path, []byte(text.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	var meta []byte
	for _, field := range text.Meta.Fields() {
		meta = append(meta, fmt.Sprintf("%s: %s\n", field[0], field[1])...)
	}
	path = filepath.Join(s.dir, "metadata.txt")
	if err := os.WriteFile(path, meta, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *FileStorage) saveLinks() error {
	links, err := s.extractor.Links()
	if err != nil {
		return err
	}

	var buf []byte
	for _, link := range links {
		buf = append(buf, fmt.Sprintf("%s (Page/Slide: %s)\n", link.URL, locationLabel(link.Location))...)
	}
	path := filepath.Join(s.dir, "extracted_links.txt")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *FileStorage) saveImages() error {
	images, err := s.extractor.Images()
	if err != nil {
		return err
	}

	imagesDir := filepath.Join(s.dir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", imagesDir, err)
	}
	for i, img := range images {
		path := filepath.Join(imagesDir, fmt.Sprintf("image_%d.%s", i+1, img.Format))
		if err := os.WriteFile(path, img.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func (s *FileStorage) saveTables() error {
	tables, err := s.extractor.Tables()
	if err != nil {
		return err
	}

	for i, table := range tables {
		path := filepath.Join(s.dir, fmt.Sprintf("table_%d.csv", i+1))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		w := csv.NewWriter(f)
		if err := w.WriteAll(table.Rows); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
	}
	return nil
}
