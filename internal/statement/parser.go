package statement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
	"github.com/Veraticus/the-leaks-must-stop/internal/ofx"
)

// Transaction sources recorded on parsed transactions.
const (
	SourceText = "csv"
	SourcePDF  = "pdf"
)

// DefaultTextStrategies is the chain for delimited and plain-text input.
func DefaultTextStrategies() []Strategy {
	return []Strategy{multilineStrategy{}, delimitedStrategy{}}
}

// DefaultPDFStrategies is the chain for PDF input, most specific first.
func DefaultPDFStrategies() []Strategy {
	return []Strategy{
		tableStrategy{},
		commBankStrategy{},
		nabStrategy{},
		usBankStrategy{},
		anzStrategy{},
		westpacStrategy{},
		westernStrategy{},
		rawLineStrategy{},
	}
}

// Parser converts statement bytes into spending transactions.
type Parser struct {
	normalizer     *normalize.MerchantNormalizer
	ofx            *ofx.Parser
	logger         *slog.Logger
	onFile         func(path string, count int)
	textStrategies []Strategy
	pdfStrategies  []Strategy
}

// Option configures a Parser.
type Option func(*Parser)

// WithNormalizer sets the merchant normalizer used for grouping keys.
func WithNormalizer(n *normalize.MerchantNormalizer) Option {
	return func(p *Parser) { p.normalizer = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithFileHook is called after each file in ParseFiles with the number of
// transactions read from it.
func WithFileHook(fn func(path string, count int)) Option {
	return func(p *Parser) { p.onFile = fn }
}

// WithPDFStrategies replaces the PDF strategy chain.
func WithPDFStrategies(s ...Strategy) Option {
	return func(p *Parser) { p.pdfStrategies = s }
}

// WithTextStrategies replaces the text strategy chain.
func WithTextStrategies(s ...Strategy) Option {
	return func(p *Parser) { p.textStrategies = s }
}

// NewParser creates a parser with the default strategy chains.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		textStrategies: DefaultTextStrategies(),
		pdfStrategies:  DefaultPDFStrategies(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default().With("component", "statement")
	}
	if p.normalizer == nil {
		p.normalizer = normalize.DefaultMerchantNormalizer()
	}
	p.ofx = ofx.NewParser(p.logger)
	return p
}

// Parse reads one statement. It returns an *common.InputFormatError when no
// strategy yields a transaction.
func (p *Parser) Parse(ctx context.Context, content []byte, format Format) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = DetectFormat("", content)
	}

	var (
		txns []model.Transaction
		err  error
	)
	switch format {
	case FormatPDF:
		txns, err = p.parsePDF(content)
	case FormatOFX:
		txns, err = p.parseOFX(ctx, content)
	case FormatCSV:
		txns = p.parseText(content)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if len(txns) == 0 {
		return nil, &common.InputFormatError{Format: string(format)}
	}
	return txns, nil
}

// ParseFile reads and parses the statement at path, detecting its format.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]model.Transaction, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	txns, err := p.Parse(ctx, content, DetectFormat(path, content))
	var formatErr *common.InputFormatError
	if errors.As(err, &formatErr) {
		formatErr.Source = path
	}
	return txns, err
}

// ParseFiles parses every file, skipping those with no readable rows, and
// merges the results with Dedupe. It fails only when no file yields data.
func (p *Parser) ParseFiles(ctx context.Context, paths []string) ([]model.Transaction, error) {
	var all []model.Transaction
	for _, path := range paths {
		txns, err := p.ParseFile(ctx, path)
		var formatErr *common.InputFormatError
		switch {
		case errors.As(err, &formatErr),
			errors.Is(err, common.ErrInvalidPDF),
			errors.Is(err, common.ErrUnsupportedFormat):
			p.logger.Warn("Skipping statement with no readable transactions",
				"file", path, "error", err)
		case err != nil:
			return nil, err
		}

		if p.onFile != nil {
			p.onFile(path, len(txns))
		}
		all = append(all, txns...)
	}

	if len(all) == 0 {
		return nil, &common.InputFormatError{Source: strings.Join(paths, ", "), Format: "statement"}
	}

	merged := Dedupe(all)
	p.logger.Debug("Merged statement files",
		"files", len(paths),
		"transactions", len(all),
		"duplicates", len(all)-len(merged))
	return merged, nil
}

// Dedupe collapses transactions that share a date, normalized merchant and
// amount, keeping the first occurrence.
func Dedupe(txns []model.Transaction) []model.Transaction {
	seen := make(map[model.DedupeKey]struct{}, len(txns))
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		k := t.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (p *Parser) parsePDF(content []byte) ([]model.Transaction, error) {
	doc, err := ExtractDocument(content)
	if err != nil {
		return nil, err
	}
	rows := p.run(doc, p.pdfStrategies, hasPlausibleData)
	return p.toTransactions(rows, SourcePDF), nil
}

func (p *Parser) parseText(content []byte) []model.Transaction {
	doc := NewTextDocument(decodeText(content))
	rows := p.run(doc, p.textStrategies, func(rows []Row) bool { return len(rows) > 0 })
	return p.toTransactions(rows, SourceText)
}

func (p *Parser) parseOFX(ctx context.Context, content []byte) ([]model.Transaction, error) {
	txns, err := p.ofx.ParseFile(ctx, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnsupportedFormat, err)
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.RawMerchant == "" {
			continue
		}
		t.NormalizedMerchant = p.normalizer.Normalize(t.RawMerchant)
		out = append(out, t)
	}
	return out, nil
}

// run returns the rows of the first strategy whose result passes accept.
func (p *Parser) run(doc *Document, strategies []Strategy, accept func([]Row) bool) []Row {
	for _, s := range strategies {
		rows := s.Extract(doc)
		if accept(rows) {
			p.logger.Debug("Statement strategy matched", "strategy", s.Name(), "rows", len(rows))
			return rows
		}
	}
	return nil
}

func (p *Parser) toTransactions(rows []Row, source string) []model.Transaction {
	out := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		amount := math.Abs(r.Amount)
		desc := strings.TrimSpace(r.Description)
		if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) || desc == "" {
			continue
		}
		out = append(out, model.Transaction{
			Date:               strings.TrimSpace(r.Date),
			RawMerchant:        desc,
			NormalizedMerchant: p.normalizer.Normalize(desc),
			Amount:             amount,
			Source:             source,
		})
	}
	return out
}

// decodeText handles the encodings bank exports actually use: UTF-8 with or
// without a BOM, UTF-16 with a BOM, and Windows-1252.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return strings.TrimPrefix(string(content), "\ufeff")
	}

	if bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF}) {
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		if out, _, err := transform.Bytes(decoder, content); err == nil {
			return string(out)
		}
	}

	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), content)
	if err != nil {
		return string(content)
	}
	return string(out)
}
