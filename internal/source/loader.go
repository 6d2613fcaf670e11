// Package source reads capture source files from disk and turns them into
// page images, and writes downloaded files back.
package source

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/spf13/afero"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

var extensionMimeTypes = map[string]string{
	".pdf":  constants.MimeTypePDF,
	".tif":  constants.MimeTypeTIFF,
	".tiff": constants.MimeTypeTIFF,
	".png":  constants.MimeTypePNG,
	".jpg":  constants.MimeTypeJPEG,
	".jpeg": constants.MimeTypeJPEG,
}

var mimeTypeExtensions = map[string]string{
	constants.MimeTypePDF:  ".pdf",
	constants.MimeTypeTIFF: ".tiff",
	constants.MimeTypePNG:  ".png",
	constants.MimeTypeJPEG: ".jpg",
}

var (
	tiffLittleEndian = []byte("II*\x00")
	tiffBigEndian    = []byte("MM\x00*")
)

// Loader reads and writes source files on a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a loader on fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Loader{fs: fs}
}

// DetectMimeType identifies data by its file extension, falling back to
// content sniffing.
func DetectMimeType(name string, data []byte) string {
	if mimeType, ok := extensionMimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mimeType
	}

	if bytes.HasPrefix(data, tiffLittleEndian) || bytes.HasPrefix(data, tiffBigEndian) {
		return constants.MimeTypeTIFF
	}

	mimeType := http.DetectContentType(data)
	if index := strings.Index(mimeType, ";"); index >= 0 {
		mimeType = mimeType[:index]
	}

	switch mimeType {
	case constants.MimeTypePDF, constants.MimeTypePNG, constants.MimeTypeJPEG:
		return mimeType
	default:
		return constants.MimeTypeBin
	}
}

// ExtensionFor returns the usual file extension for mimeType, or ".bin".
func ExtensionFor(mimeType string) string {
	if extension, ok := mimeTypeExtensions[mimeType]; ok {
		return extension
	}

	return ".bin"
}

// ReadSourceFile loads path as a document source file.
func (l *Loader) ReadSourceFile(path string) (*capture.SourceFile, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}

	return &capture.SourceFile{
		FileName: filepath.Base(path),
		MimeType: DetectMimeType(path, data),
		Data:     data,
	}, nil
}

// ReadImage loads path as a single image.
func (l *Loader) ReadImage(path string) (*capture.ImageData, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	return &capture.ImageData{MimeType: DetectMimeType(path, data), Data: data}, nil
}

// ReadPages loads each path as page content. A PDF contributes one page per
// PDF page; any other file is a single page.
func (l *Loader) ReadPages(paths ...string) ([]capture.PageImage, error) {
	var pages []capture.PageImage

	for _, path := range paths {
		file, err := l.ReadSourceFile(path)
		if err != nil {
			return nil, err
		}

		if file.MimeType != constants.MimeTypePDF {
			pages = append(pages, capture.PageImage{MimeType: file.MimeType, Data: file.Data})

			continue
		}

		split, err := SplitPDF(file.Data)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", path, err)
		}

		for _, data := range split {
			pages = append(pages, capture.PageImage{MimeType: constants.MimeTypePDF, Data: data})
		}
	}

	if len(pages) == 0 {
		return nil, constants.ErrNoPagesInSource
	}

	return pages, nil
}

// SplitPDF returns one single-page PDF per page of data, in page order.
func SplitPDF(data []byte) ([][]byte, error) {
	conf := model.NewDefaultConfiguration()

	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	if pageCount == 0 {
		return nil, constants.ErrNoPagesInSource
	}

	pages := make([][]byte, 0, pageCount)

	for pageNr := 1; pageNr <= pageCount; pageNr++ {
		var buf bytes.Buffer

		err = api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(pageNr)}, conf)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", pageNr, err)
		}

		pages = append(pages, buf.Bytes())
	}

	return pages, nil
}

// WriteFile stores downloaded content at path, creating parent directories.
func (l *Loader) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		err := l.fs.MkdirAll(dir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	err := afero.WriteFile(l.fs, path, data, constants.OutputFilePerm)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
