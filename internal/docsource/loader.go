// Package docsource turns quotation PDF files into the ordered line
// streams the extraction engine works on. It owns all file I/O; the
// engine itself never touches the filesystem.
package docsource

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/quoteparse/quote-extractor/internal/engine"
)

// Loader reads PDF files and produces raw documents.
type Loader struct {
	maxFileSize int64
}

// NewLoader creates a loader enforcing the given file size cap.
func NewLoader(maxFileSize int64) *Loader {
	return &Loader{maxFileSize: maxFileSize}
}

// Load validates the file and extracts its text lines page by page,
// preserving row order within each page.
func (l *Loader) Load(path string) (*engine.RawDocument, error) {
	if err := l.validate(path); err != nil {
		return nil, err
	}
	info, err := Inspect(path)
	if err != nil {
		return nil, err
	}
	if info.Encrypted {
		return nil, fmt.Errorf("file is encrypted: %s", path)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([][]string, 0, reader.NumPage())
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, pageLines(page))
	}

	return engine.NewRawDocument(pages), nil
}

// LastPageText returns the plain text of the trailing page, used for the
// terms section of the rendered workbook. A document with no readable
// last page yields an empty string, not an error.
func (l *Loader) LastPageText(path string) (string, error) {
	if err := l.validate(path); err != nil {
		return "", err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	if reader.NumPage() == 0 {
		return "", nil
	}
	page := reader.Page(reader.NumPage())
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return text, nil
}

// pageLines extracts one page's text rows, top to bottom. Fragments within
// a row are concatenated in reading order. A page whose row extraction
// fails contributes no lines rather than failing the document.
func pageLines(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		for _, word := range row.Content {
			sb.WriteString(word.S)
		}
		if line := strings.TrimSpace(sb.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// validate performs the pre-flight checks shared by all loader entry
// points: existence, regular file, .pdf suffix, non-empty, size cap.
func (l *Loader) validate(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if fileInfo.Size() > l.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), l.maxFileSize)
	}
	return nil
}
