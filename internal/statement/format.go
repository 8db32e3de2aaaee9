// Package statement turns raw statement bytes (delimited text, space-separated
// dumps, PDF and OFX) into spending transactions.
package statement

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
)

// Format identifies how statement bytes should be read.
type Format string

// Supported statement formats.
const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatOFX  Format = "ofx"
)

var (
	pdfMagic   = []byte("%PDF")
	pdfTrailer = []byte("%%EOF")
)

// pdfTrailerWindow is how far from the end of the file %%EOF may appear.
// Writers commonly append a newline or a few bytes of padding after it.
const pdfTrailerWindow = 1024

// ParseFormat converts a user supplied hint such as "pdf" or "qfx".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", "txt", "text", "tsv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "ofx", "qfx":
		return FormatOFX, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, s)
	}
}

// DetectFormat guesses the format from the file name and leading bytes.
// Anything that is neither PDF nor OFX is treated as delimited text.
func DetectFormat(name string, content []byte) Format {
	head := bytes.TrimLeft(content, " \t\r\n\ufeff")
	if bytes.HasPrefix(head, pdfMagic) {
		return FormatPDF
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".ofx", ".qfx":
		return FormatOFX
	}

	if len(head) > 512 {
		head = head[:512]
	}
	upper := bytes.ToUpper(head)
	if bytes.HasPrefix(upper, []byte("OFXHEADER")) || bytes.Contains(upper, []byte("<OFX>")) {
		return FormatOFX
	}
	return FormatCSV
}

// ValidatePDF checks the leading %PDF magic and the %%EOF trailer before any
// extraction is attempted.
func ValidatePDF(content []byte) error {
	if !bytes.HasPrefix(content, pdfMagic) {
		return fmt.Errorf("%w: missing %%PDF header", common.ErrInvalidPDF)
	}

	tail := content
	if len(tail) > pdfTrailerWindow {
		tail = tail[len(tail)-pdfTrailerWindow:]
	}
	if !bytes.Contains(tail, pdfTrailer) {
		return fmt.Errorf("%w: missing %%%%EOF trailer", common.ErrInvalidPDF)
	}
	return nil
}
