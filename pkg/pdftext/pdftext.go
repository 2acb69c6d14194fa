// Package pdftext extracts the embedded text layer of a PDF, one string per
// page. Scanned (image-only) pages yield empty strings.
package pdftext

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// ExtractPages returns the plain text of every page in order.
func ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("pdftext: %s page %d: %w", path, i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// WritePages writes each page followed by a newline.
func WritePages(w io.Writer, pages []string) error {
	bw := bufio.NewWriter(w)
	for _, p := range pages {
		if _, err := bw.WriteString(p); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Convert extracts inPath and writes the text to outPath. The output file
// is only created once extraction has succeeded.
func Convert(inPath, outPath string) (pages int, err error) {
	text, err := ExtractPages(inPath)
	if err != nil {
		return 0, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("pdftext: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("pdftext: %w", cerr)
		}
	}()

	if err := WritePages(out, text); err != nil {
		return 0, fmt.Errorf("pdftext: write %s: %w", outPath, err)
	}
	return len(text), nil
}
