package party

import (
	"context"
	"errors"
	"strings"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

// RepositoryPort defines data access methods for parties.
type RepositoryPort interface {
	// FindParty matches a query against id, code, person and description.
	FindParty(ctx context.Context, partyType Type, query string) (*Party, error)
	ListParties(ctx context.Context, partyType Type, search string) ([]Party, error)
}

// Service resolves inconsistent party references into canonical identities.
type Service struct {
	repo        RepositoryPort
	countryCode string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, countryCode string) *Service {
	return &Service{repo: repo, countryCode: countryCode}
}

// Resolve canonicalizes a party query into a display identity and alias set.
// An unmatched query degrades to the raw string as sole alias; resolution
// never fails on missing data.
func (s *Service) Resolve(ctx context.Context, partyType Type, query string) (Resolution, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Resolution{}, shared.Validationf("party query required")
	}

	p, err := s.repo.FindParty(ctx, partyType, query)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Resolution{DisplayName: query, Aliases: []string{query}}, nil
		}
		return Resolution{}, err
	}

	return Resolution{
		DisplayName: p.DisplayName(),
		Aliases:     p.AliasSet(),
		Phone:       NormalizePhone(p.Phone, s.countryCode),
	}, nil
}

// List returns parties of a type, optionally filtered by a search string.
func (s *Service) List(ctx context.Context, partyType Type, search string) ([]Party, error) {
	return s.repo.ListParties(ctx, partyType, search)
}
