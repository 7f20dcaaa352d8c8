package invoicing

import (
	"fmt"
	"strings"

	"github.com/facturator/backend/internal/domain/shared"
)

// MatchPolicy decides what happens when several payers match a name
type MatchPolicy string

const (
	// MatchFirst returns the first matching payer in candidate order
	MatchFirst MatchPolicy = "first"
	// MatchUnique fails with NOT_UNIQUE when more than one payer matches
	MatchUnique MatchPolicy = "unique"
)

// ParseMatchPolicy parses a policy name, defaulting to MatchFirst
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchFirst:
		return MatchFirst, nil
	case MatchUnique:
		return MatchUnique, nil
	default:
		return "", fmt.Errorf("unknown payer match policy %q", s)
	}
}

// PayerFromName returns the first payer whose name contains name, ignoring case.
// It returns nil when nothing matches.
func PayerFromName(name string, payers []Payer) *Payer {
	p, _ := MatchPayer(name, payers, MatchFirst)
	return p
}

// MatchPayer finds the payer whose name contains name, ignoring case.
// Candidates are scanned in the given order; repositories list payers oldest first.
func MatchPayer(name string, payers []Payer, policy MatchPolicy) (*Payer, error) {
	query := strings.ToLower(name)
	var found *Payer
	for i := range payers {
		if !strings.Contains(strings.ToLower(payers[i].Name), query) {
			continue
		}
		if found == nil {
			found = &payers[i]
			if policy != MatchUnique {
				return found, nil
			}
			continue
		}
		return nil, shared.NewDomainError(shared.CodeNotUnique,
			fmt.Sprintf("name %q matches payers %q and %q", name, found.Name, payers[i].Name))
	}
	return found, nil
}

// ContainsFold reports whether s contains substr, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}
