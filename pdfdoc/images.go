package pdfdoc

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// PageImage is one embedded raster image together with the page it appears
// on. FileType is pdfcpu's codec name for the decoded stream, lowercased.
type PageImage struct {
	Data     []byte
	FileType string
	PageNr   int
}

// Images extracts every raster image in page order. Within a page, images
// are ordered by object number so repeated runs yield identical output.
// Image extraction drains the underlying streams, so it operates on a fresh
// parse of the file rather than the shared context.
func (r *Reader) Images() ([]PageImage, error) {
	ctx, err := readContext(r.path)
	if err != nil {
		return nil, err
	}

	var out []PageImage
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		mm, err := pdfcpu.ExtractPageImages(ctx, pageNr, false)
		if err != nil {
			return nil, fmt.Errorf("extracting images from page %d: %w", pageNr, err)
		}

		objNrs := make([]int, 0, len(mm))
		for nr := range mm {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			img := mm[nr]
			if img.Reader == nil {
				continue
			}
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("reading image object %d on page %d: %w", nr, pageNr, err)
			}
			out = append(out, PageImage{
				Data:     data,
				FileType: strings.ToLower(img.FileType),
				PageNr:   pageNr,
			})
		}
	}
	return out, nil
}
