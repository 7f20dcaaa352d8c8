// Package statementimport reads the HTML statement export of the bank into transactions.
package statementimport

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/facturator/backend/internal/domain/reconciliation"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Layout of the export: a banner of preamble rows, a leading empty column, then a header
// row followed by the movements. Some data columns are padding and are dropped by position.
const preambleRows = 10

var droppedColumns = []int{1, 3, 5, 7, 8}

// Header names, compared without case or accents
const (
	ColumnOperationDate = "Fecha Operación"
	ColumnValueDate     = "Fecha Valor"
	ColumnConcept       = "Concepto"
	ColumnAmount        = "Importe"
)

// Some exports lose the accent of the operation date header to a replacement character
var operationDateHeaders = []string{ColumnOperationDate, "Fecha Operaci?n"}

var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"02.01.2006",
	"02/01/2006 15:04:05",
}

// Parser reads bank statement exports
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse decodes the export and returns one transaction per non-blank movement row.
// Malformed files fail with INVALID_STATEMENT.
func (p *Parser) Parse(ctx context.Context, data []byte) ([]reconciliation.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidStatement, "Bank statement is empty")
	}

	doc, encoding, err := decode(data)
	if err != nil {
		return nil, invalidStatement("Bank statement encoding is not supported", err)
	}
	rows, ok := firstTable(doc)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidStatement, "Bank statement contains no table")
	}
	if len(rows) <= preambleRows {
		return nil, shared.NewDomainError(shared.CodeInvalidStatement,
			fmt.Sprintf("Bank statement has %d rows, expected a header after %d preamble rows", len(rows), preambleRows))
	}

	header := dropColumns(rows[preambleRows])
	columns, err := locateColumns(header, preambleRows+1)
	if err != nil {
		return nil, err
	}

	txs := make([]reconciliation.Transaction, 0, len(rows)-preambleRows-1)
	for i, raw := range rows[preambleRows+1:] {
		rowNumber := preambleRows + 2 + i
		cells := dropColumns(raw)
		if blank(cells) {
			continue
		}
		tx, err := columns.transaction(rowNumber, cells)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	p.logger.Debug("Parsed bank statement",
		zap.String("encoding", encoding),
		zap.Int("rows", len(rows)),
		zap.Int("transactions", len(txs)),
	)
	return txs, nil
}

// dropColumns removes the leading empty column and the padding columns
func dropColumns(row []string) []string {
	if len(row) == 0 {
		return nil
	}
	row = row[1:]
	kept := make([]string, 0, len(row))
	for i, cell := range row {
		if !slices.Contains(droppedColumns, i) {
			kept = append(kept, cell)
		}
	}
	return kept
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnIndex maps the header of the movements table to cell positions
type columnIndex struct {
	operationDate int
	valueDate     int
	concept       int
	amount        int
	extra         map[int]string
}

func locateColumns(header []string, rowNumber int) (*columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if key := foldHeader(name); key != "" {
			if _, dup := positions[key]; !dup {
				positions[key] = i
			}
		}
	}

	find := func(names ...string) (int, error) {
		for _, name := range names {
			if i, ok := positions[foldHeader(name)]; ok {
				return i, nil
			}
		}
		return 0, invalidRow(rowNumber, names[0], "missing column in statement header", "")
	}

	idx := &columnIndex{extra: make(map[int]string)}
	var err error
	if idx.operationDate, err = find(operationDateHeaders...); err != nil {
		return nil, err
	}
	if idx.valueDate, err = find(ColumnValueDate); err != nil {
		return nil, err
	}
	if idx.concept, err = find(ColumnConcept); err != nil {
		return nil, err
	}
	if idx.amount, err = find(ColumnAmount); err != nil {
		return nil, err
	}

	known := []int{idx.operationDate, idx.valueDate, idx.concept, idx.amount}
	for i, name := range header {
		if name != "" && !slices.Contains(known, i) {
			idx.extra[i] = name
		}
	}
	return idx, nil
}

func (c *columnIndex) transaction(row int, cells []string) (reconciliation.Transaction, error) {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	opDate, err := parseDayFirst(cell(c.operationDate))
	if err != nil {
		return reconciliation.Transaction{}, invalidRow(row, ColumnOperationDate, "invalid date", cell(c.operationDate))
	}
	valueDate, err := parseDayFirst(cell(c.valueDate))
	if err != nil {
		return reconciliation.Transaction{}, invalidRow(row, ColumnValueDate, "invalid date", cell(c.valueDate))
	}
	amount, err := parseAmount(cell(c.amount))
	if err != nil {
		return reconciliation.Transaction{}, invalidRow(row, ColumnAmount, "invalid amount", cell(c.amount))
	}

	var extra map[string]string
	for i, name := range c.extra {
		if v := cell(i); v != "" {
			if extra == nil {
				extra = make(map[string]string, len(c.extra))
			}
			extra[name] = v
		}
	}

	return reconciliation.Transaction{
		Row:           row,
		OperationDate: opDate,
		ValueDate:     valueDate,
		Concept:       cell(c.concept),
		Amount:        amount,
		ExtraColumns:  extra,
	}, nil
}

func parseDayFirst(s string) (time.Time, error) {
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount reads the bank's amount notation: dots group thousands, a comma marks
// the decimals, and the figure is expressed in hundredths of the currency unit.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(decimal.NewFromInt(100)), nil
}

// foldHeader lowercases a header and strips its accents
func foldHeader(s string) string {
	s = strings.ReplaceAll(s, "\uFFFD", "?")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
