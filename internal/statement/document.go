package statement

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
)

// Layout thresholds, expressed as multiples of the glyph font size.
const (
	wordGapRatio   = 0.15
	columnGapRatio = 1.5
	defaultFont    = 10.0
	minTableCells  = 3
)

// Page is the text layout of one statement page.
type Page struct {
	// Lines are the page's text rows from top to bottom.
	Lines []string
	// Tables are runs of consecutive rows that split into at least three
	// cells on wide horizontal gaps.
	Tables [][][]string
}

// Document is the extracted content every Strategy works from.
type Document struct {
	Pages []Page
}

// NewTextDocument wraps plain text as a single page document.
func NewTextDocument(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return &Document{Pages: []Page{{Lines: strings.Split(text, "\n")}}}
}

// Lines returns every line in the document in page order.
func (d *Document) Lines() []string {
	var lines []string
	for _, p := range d.Pages {
		lines = append(lines, p.Lines...)
	}
	return lines
}

// Text joins every line with newlines.
func (d *Document) Text() string {
	return strings.Join(d.Lines(), "\n")
}

// Tables returns every table in the document in page order.
func (d *Document) Tables() [][][]string {
	var tables [][][]string
	for _, p := range d.Pages {
		tables = append(tables, p.Tables...)
	}
	return tables
}

// ExtractDocument reads the text layout of a PDF.
func ExtractDocument(content []byte) (doc *Document, err error) {
	if err := ValidatePDF(content); err != nil {
		return nil, err
	}

	// The pdf reader panics on some damaged cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", common.ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidPDF, err)
	}

	doc = &Document{}
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, extractPage(p))
	}
	return doc, nil
}

func extractPage(p pdf.Page) Page {
	rows, err := p.GetTextByRow()
	if err != nil || len(rows) == 0 {
		text, textErr := p.GetPlainText(nil)
		if textErr != nil {
			return Page{}
		}
		return Page{Lines: strings.Split(text, "\n")}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	var page Page
	var table [][]string
	flush := func() {
		if len(table) > 1 {
			page.Tables = append(page.Tables, table)
		}
		table = nil
	}

	for _, row := range rows {
		glyphs := make([]pdf.Text, 0, len(row.Content))
		glyphs = append(glyphs, row.Content...)
		cells := splitCells(glyphs)
		if len(cells) == 0 {
			continue
		}

		page.Lines = append(page.Lines, strings.Join(cells, " "))
		if len(cells) >= minTableCells {
			table = append(table, cells)
		} else {
			flush()
		}
	}
	flush()

	return page
}

// splitCells rebuilds words from positioned glyphs and breaks the row into
// cells wherever the horizontal gap is wide enough to be a column boundary.
func splitCells(glyphs []pdf.Text) []string {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var cells []string
	var cell strings.Builder
	end := math.Inf(-1)
	spaced := false

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			spaced = cell.Len() > 0
			continue
		}

		size := g.FontSize
		if size <= 0 {
			size = defaultFont
		}
		gap := g.X - end

		switch {
		case cell.Len() == 0:
		case gap > size*columnGapRatio:
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		case spaced || gap > size*wordGapRatio:
			cell.WriteByte(' ')
		}

		cell.WriteString(g.S)
		end = g.X + g.W
		spaced = false
	}

	if s := strings.TrimSpace(cell.String()); s != "" {
		cells = append(cells, s)
	}
	return cells
}
