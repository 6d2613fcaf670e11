package capturetest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// checkPageIndexes requires distinct, in-range page positions.
func checkPageIndexes(d *document, indexes []int) error {
	if len(indexes) == 0 {
		return invalidOperation("no page indexes given")
	}

	seen := make(map[int]bool, len(indexes))

	for _, index := range indexes {
		_, err := d.page(index)
		if err != nil {
			return err
		}

		if seen[index] {
			return invalidOperation("page index %d listed twice", index)
		}

		seen[index] = true
	}

	return nil
}

// takePages removes the pages at indexes from d and returns them in the
// order the indexes were given.
func takePages(d *document, indexes []int) []*page {
	taken := make([]*page, 0, len(indexes))
	removed := make(map[int]bool, len(indexes))

	for _, index := range indexes {
		taken = append(taken, d.pages[index])
		removed[index] = true
	}

	kept := make([]*page, 0, len(d.pages)-len(indexes))

	for i, p := range d.pages {
		if !removed[i] {
			kept = append(kept, p)
		}
	}

	d.pages = kept

	return taken
}

func deletePages(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	err = checkPageIndexes(d, req.PageIndexes)
	if err != nil {
		return nil, err
	}

	takePages(d, req.PageIndexes)

	return nil, nil
}

// movePages inserts the moved pages at insertIndex of the destination as it
// stands after the pages were taken out.
func movePages(s *Server, req *request) (interface{}, error) {
	source, err := s.store.document(req.SourceDocumentID)
	if err != nil {
		return nil, err
	}

	destination, err := s.store.document(req.DestinationDocumentID)
	if err != nil {
		return nil, err
	}

	err = checkPageIndexes(source, req.PageIndexes)
	if err != nil {
		return nil, err
	}

	err = checkInsertIndex(req.InsertIndex)
	if err != nil {
		return nil, err
	}

	moved := takePages(source, req.PageIndexes)
	destination.pages = insertPages(destination.pages, moved, req.InsertIndex)

	return nil, nil
}

func rejectPages(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	err = checkPageIndexes(d, req.PageIndexes)
	if err != nil {
		return nil, err
	}

	for _, index := range req.PageIndexes {
		d.pages[index].rejected = true
		d.pages[index].rejectionReason = req.Reason
	}

	return nil, nil
}

func updatePages(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	var updates []capture.PageUpdate

	err = json.Unmarshal(req.Pages, &updates)
	if err != nil {
		return nil, capture.NewFault(capture.FaultKindRemote, "malformed page updates")
	}

	for _, update := range updates {
		_, err = d.page(update.PageIndex)
		if err != nil {
			return nil, err
		}
	}

	for _, update := range updates {
		p := d.pages[update.PageIndex]

		if update.SheetID != nil {
			p.sheetID = *update.SheetID
		}

		if update.IsFront != nil {
			p.isFront = *update.IsFront
		}

		if update.Rotation != nil {
			p.rotation = *update.Rotation
		}

		if update.Width != nil {
			p.width = *update.Width
		}

		if update.Barcodes != nil {
			p.barcodes = append([]string(nil), update.Barcodes...)
		}
	}

	return nil, nil
}

func savePageImage(s *Server, req *request) (interface{}, error) {
	if len(req.Data) == 0 {
		return nil, invalidOperation("image data is required")
	}

	return s.store.saveImage(req.MimeType, req.Data), nil
}

func savePageRendition(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	p, err := d.page(req.PageIndex)
	if err != nil {
		return nil, err
	}

	if req.RenditionIndex < 0 {
		return nil, invalidOperation("rendition index %d is invalid", req.RenditionIndex)
	}

	p.renditions[req.RenditionIndex] = &capture.ImageData{MimeType: req.MimeType, Data: append([]byte(nil), req.Data...)}

	return nil, nil
}

func pageRendition(s *Server, req *request) (*page, *capture.ImageData, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, nil, err
	}

	p, err := d.page(req.PageIndex)
	if err != nil {
		return nil, nil, err
	}

	rendition, ok := p.renditions[req.RenditionIndex]
	if !ok {
		return nil, nil, notFound("rendition", strconv.Itoa(req.RenditionIndex))
	}

	return p, rendition, nil
}

// setPageSourceImageFromRendition stores the rendition as a new image and
// makes it the page's source image.
func setPageSourceImageFromRendition(s *Server, req *request) (interface{}, error) {
	p, rendition, err := pageRendition(s, req)
	if err != nil {
		return nil, err
	}

	p.imageID = s.store.saveImage(rendition.MimeType, rendition.Data)

	return nil, nil
}

func getImage(s *Server, req *request) (interface{}, error) {
	image, ok := s.store.images[req.ImageID]
	if !ok {
		return nil, notFound("image", req.ImageID)
	}

	var options capture.ImageOptions

	if len(req.Options) > 0 && string(req.Options) != "null" {
		err := json.Unmarshal(req.Options, &options)
		if err != nil {
			return nil, capture.NewFault(capture.FaultKindRemote, "malformed image options")
		}
	}

	if options.Format != "" && !strings.EqualFold(options.Format, image.MimeType) {
		return nil, invalidOperation("image %q cannot be converted to %s", req.ImageID, options.Format)
	}

	return image, nil
}

func getPageRendition(s *Server, req *request) (interface{}, error) {
	_, rendition, err := pageRendition(s, req)
	if err != nil {
		return nil, err
	}

	return rendition, nil
}

func getPageRenditionImageSummary(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	p, err := d.page(req.PageIndex)
	if err != nil {
		return nil, err
	}

	summaries := make([]capture.ImageSummary, 0, len(p.renditions))
	for _, index := range sortedKeys(p.renditions) {
		rendition := p.renditions[index]
		summaries = append(summaries, capture.ImageSummary{
			RenditionIndex: index,
			MimeType:       rendition.MimeType,
			Size:           len(rendition.Data),
		})
	}

	return summaries, nil
}

func getPageSummary(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	summaries := make([]capture.PageSummary, 0, len(d.pages))

	for i, p := range d.pages {
		snapshot := s.store.pageSnapshot(p)
		summaries = append(summaries, capture.PageSummary{
			PageIndex: i,
			ID:        snapshot.ID,
			ImageID:   snapshot.ImageID,
			MimeType:  snapshot.MimeType,
			Rejected:  snapshot.Rejected,
		})
	}

	return summaries, nil
}

func pageProperties(p *page) map[string]string {
	return map[string]string{
		"SheetId":  p.sheetID,
		"IsFront":  strconv.FormatBool(p.isFront),
		"Rotation": strconv.Itoa(p.rotation),
		"Width":    strconv.Itoa(p.width),
		"Height":   strconv.Itoa(p.height),
		"Barcodes": strings.Join(p.barcodes, ","),
	}
}

func getPagePropertyValues(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	p, err := d.page(req.PageIndex)
	if err != nil {
		return nil, err
	}

	var names []string

	if len(req.Properties) > 0 && string(req.Properties) != "null" {
		err = json.Unmarshal(req.Properties, &names)
		if err != nil {
			return nil, capture.NewFault(capture.FaultKindRemote, "malformed property names")
		}
	}

	all := pageProperties(p)
	if len(names) == 0 {
		return all, nil
	}

	selected := make(map[string]string, len(names))

	for _, name := range names {
		value, ok := all[name]
		if !ok {
			return nil, notFound("page property", name)
		}

		selected[name] = value
	}

	return selected, nil
}

func savePageTextExtension(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	p, err := d.page(req.PageIndex)
	if err != nil {
		return nil, err
	}

	p.extensions[req.Name] = req.Value

	return nil, nil
}

func getPageTextExtension(s *Server, req *request) (interface{}, error) {
	d, err := s.store.document(req.DocumentID)
	if err != nil {
		return nil, err
	}

	p, err := d.page(req.PageIndex)
	if err != nil {
		return nil, err
	}

	value, ok := p.extensions[req.Name]
	if !ok {
		return nil, notFound("page extension", req.Name)
	}

	return value, nil
}
