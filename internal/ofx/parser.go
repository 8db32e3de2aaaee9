// Package ofx reads OFX/QFX statement downloads.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// Source tags transactions read from OFX files.
const Source = "ofx"

var (
	severityFix = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFix      = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// Parser converts OFX statements into spending transactions. Credits are
// dropped; debits become positive amounts.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocess fixes common formatting issues in OFX files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityFix.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFix.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX document.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts, credits int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		txns, skipped := p.convertAll(stmt.BankTranList.Transactions)
		transactions = append(transactions, txns...)
		credits += skipped
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		txns, skipped := p.convertAll(stmt.BankTranList.Transactions)
		transactions = append(transactions, txns...)
		credits += skipped
	}

	p.logger.Debug("Parsed OFX file",
		"transactions", len(transactions),
		"credits_skipped", credits,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertAll(in []ofxgo.Transaction) ([]model.Transaction, int) {
	out := make([]model.Transaction, 0, len(in))
	var skipped int
	for _, tx := range in {
		converted, ok := convertTransaction(tx)
		if !ok {
			skipped++
			continue
		}
		out = append(out, converted)
	}
	return out, skipped
}

// convertTransaction keeps debits only. OFX signs debits negative.
func convertTransaction(tx ofxgo.Transaction) (model.Transaction, bool) {
	amount, _ := tx.TrnAmt.Float64()
	if amount >= 0 {
		return model.Transaction{}, false
	}

	return model.Transaction{
		Date:        tx.DtPosted.Format("2006-01-02"),
		RawMerchant: extractMerchantName(tx),
		Description: strings.TrimSpace(string(tx.Memo)),
		Amount:      -amount,
		Source:      Source,
	}, true
}

// extractMerchantName prefers PAYEE, then NAME, then MEMO when NAME is
// generic, and strips card-network prefixes.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// MM/DD at the front
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
