package party

import (
	"strings"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

// Type discriminates the two counterparty kinds.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
)

// ParseType validates a caller-supplied party type string.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCustomer:
		return TypeCustomer, nil
	case TypeSupplier:
		return TypeSupplier, nil
	}
	return "", shared.Validationf("unknown party type %q", s)
}

// Party is a stored counterparty record. Transactions reference it by any of
// its string forms, so every form participates in the alias set.
type Party struct {
	ID          string
	Type        Type
	Code        string
	Person      string
	Description string
	Phone       string
}

// Resolution is the canonical identity for a party query.
type Resolution struct {
	DisplayName string   `json:"displayName"`
	Aliases     []string `json:"aliases"`
	Phone       string   `json:"phone,omitempty"`
}

// DisplayName composes the preferred human label for a party.
func (p Party) DisplayName() string {
	switch {
	case p.Person != "" && p.Description != "":
		return p.Person + " (" + p.Description + ")"
	case p.Person != "":
		return p.Person
	case p.Description != "":
		return p.Description
	case p.Code != "":
		return p.Code
	}
	return p.ID
}

// AliasSet returns every string form a transaction may use to reference the
// party, deduplicated with blanks dropped.
func (p Party) AliasSet() []string {
	candidates := []string{p.ID, p.Code, p.Person, p.Description}
	if p.Person != "" && p.Description != "" {
		candidates = append(candidates, p.Person+" ("+p.Description+")")
	}
	seen := make(map[string]struct{}, len(candidates))
	aliases := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		aliases = append(aliases, c)
	}
	return aliases
}
