// Package ofx turns OFX/QFX bank and card statements into expense import
// records.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

// Category names assigned from the OFX transaction type.
const (
	CategoryBankFees = "Bank Fees"
	CategoryCashATM  = "Cash & ATM"
	DefaultCategory  = "Imported"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line with no closing bracket
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct {
	location *time.Location
	category string
}

// Option configures a Parser.
type Option func(*Parser)

// WithCategory sets the category for debits whose type has no mapping.
func WithCategory(name string) Option {
	return func(p *Parser) {
		if name = strings.TrimSpace(name); name != "" {
			p.category = name
		}
	}
}

// WithLocation sets the zone posted dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.location = loc
		}
	}
}

// NewParser creates a new OFX parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{location: time.Local, category: DefaultCategory}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read OFX file: %v", common.ErrIOFailure, err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse OFX file: %v", common.ErrInvalidInput, err)
	}
	return resp, nil
}

// ParseFile returns one import record per debit in the statement, in file
// order. Credits are not expenses and are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.ImportRecord, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var txns []ofxgo.Transaction
	var bankStmts, ccStmts int

	// Process bank messages
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			txns = append(txns, stmt.BankTranList.Transactions...)
		}
	}

	// Process credit card messages
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			txns = append(txns, stmt.BankTranList.Transactions...)
		}
	}

	records := make([]model.ImportRecord, 0, len(txns))
	skipped := 0
	for i, txn := range txns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, ok := p.convertTransaction(txn, i+1)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	slog.Info("Parsed OFX file",
		"debits", len(records),
		"skipped_credits", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return records, nil
}

// convertTransaction maps a debit to an import record. OFX uses negative
// amounts for debits; the record carries the absolute value.
func (p *Parser) convertTransaction(txn ofxgo.Transaction, line int) (model.ImportRecord, bool) {
	amount, err := decimal.NewFromString(txn.TrnAmt.FloatString(2))
	if err != nil || !amount.IsNegative() {
		return model.ImportRecord{}, false
	}

	return model.ImportRecord{
		Line:     line,
		Amount:   amount.Abs().String(),
		Category: p.categoryFor(txn),
		Date:     model.FormatTimestamp(txn.DtPosted.In(p.location)),
	}, true
}

func (p *Parser) categoryFor(txn ofxgo.Transaction) string {
	switch txn.TrnType {
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return CategoryBankFees
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		return CategoryCashATM
	default:
		return p.category
	}
}

// GetAccounts extracts unique account IDs from the OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	add := func(id ofxgo.String) {
		if id != "" && !seen[string(id)] {
			seen[string(id)] = true
			accounts = append(accounts, string(id))
		}
	}

	// Bank accounts
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(stmt.BankAcctFrom.AcctID)
		}
	}

	// Credit card accounts
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(stmt.CCAcctFrom.AcctID)
		}
	}

	return accounts, nil
}

// Source replays parsed records through the storage import pipeline.
type Source struct {
	records []model.ImportRecord
	pos     int
}

// NewSource wraps records for sequential reading.
func NewSource(records []model.ImportRecord) *Source {
	return &Source{records: records}
}

// Next returns the next record or io.EOF.
func (s *Source) Next() (model.ImportRecord, error) {
	if s.pos >= len(s.records) {
		return model.ImportRecord{}, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}
