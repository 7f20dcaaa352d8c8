// Package reconciliation turns bank-statement transactions into draft invoice orders.
package reconciliation

import (
	"regexp"
	"sort"
	"time"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one row of a bank statement
type Transaction struct {
	Row           int
	OperationDate time.Time
	ValueDate     time.Time
	Concept       string
	Amount        decimal.Decimal
	ExtraColumns  map[string]string
}

// Patterns tried in order against a transaction concept; the first match wins
var conceptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`BIZUM DE (.+?) CONCEPTO`),
	regexp.MustCompile(`TRANSFERENCIA DE (.+?), CONCEPTO`),
}

// ExtractName returns the payer name embedded in a concept, or nil
func ExtractName(concept string) *string {
	for _, re := range conceptPatterns {
		if m := re.FindStringSubmatch(concept); m != nil {
			name := m[1]
			return &name
		}
	}
	return nil
}

// Draft is the aggregate of all transactions sent by one payer
type Draft struct {
	Name         string
	LatestDate   time.Time
	TotalAmount  decimal.Decimal
	Transactions int
}

// Aggregate groups transactions by normalized payer name, so concepts differing only in
// letter case land in the same draft. Draft names are uppercased.
// Transactions without a recognizable name are left out. Drafts are sorted by name.
func Aggregate(txs []Transaction) []Draft {
	groups := make(map[string]*Draft)
	for _, tx := range txs {
		name := ExtractName(tx.Concept)
		if name == nil {
			continue
		}
		key := invoicing.NormalizeName(*name)
		g, ok := groups[key]
		if !ok {
			g = &Draft{Name: key, LatestDate: tx.OperationDate, TotalAmount: decimal.Zero}
			groups[key] = g
		}
		if tx.OperationDate.After(g.LatestDate) {
			g.LatestDate = tx.OperationDate
		}
		g.TotalAmount = g.TotalAmount.Add(tx.Amount)
		g.Transactions++
	}

	drafts := make([]Draft, 0, len(groups))
	for _, g := range groups {
		drafts = append(drafts, *g)
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].Name < drafts[j].Name
	})
	return drafts
}

// DraftOrders builds one unnumbered, unallocated invoice order per draft
func DraftOrders(txs []Transaction) []*invoicing.InvoiceOrder {
	drafts := Aggregate(txs)
	orders := make([]*invoicing.InvoiceOrder, 0, len(drafts))
	for _, d := range drafts {
		orders = append(orders, invoicing.NewInvoiceOrder(uuid.New(), d.Name, d.LatestDate, d.TotalAmount, nil))
	}
	return orders
}
