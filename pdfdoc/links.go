package pdfdoc

import (
	"sort"

	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docsift/docsift/model"
)

// Links returns every link annotation in page order, ordered by object
// number within a page. A link annotation with no URI action still counts;
// it is emitted with an empty URL. The source file is re-read on every
// call.
func (r *Reader) Links() ([]model.Link, error) {
	ctx, err := readContext(r.path)
	if err != nil {
		return nil, err
	}

	var out []model.Link
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pgAnnots, ok := ctx.PageAnnots[pageNr]
		if !ok {
			continue
		}
		annots, ok := pgAnnots[pdfmodel.AnnLink]
		if !ok {
			continue
		}

		objNrs := make([]int, 0, len(annots.Map))
		for nr := range annots.Map {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			link, ok := annots.Map[nr].(pdfmodel.LinkAnnotation)
			if !ok {
				continue
			}
			out = append(out, model.Link{URL: link.URI, Location: pageNr})
		}
	}
	return out, nil
}
