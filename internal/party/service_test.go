package party

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

type memoryPartyRepo struct {
	parties []Party
}

func (r *memoryPartyRepo) FindParty(ctx context.Context, partyType Type, query string) (*Party, error) {
	for i := range r.parties {
		p := r.parties[i]
		if p.Type != partyType {
			continue
		}
		if p.ID == query || p.Code == query || p.Person == query || p.Description == query {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryPartyRepo) ListParties(ctx context.Context, partyType Type, search string) ([]Party, error) {
	var out []Party
	for _, p := range r.parties {
		if p.Type == partyType {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestResolveMatchesAnyStringForm(t *testing.T) {
	repo := &memoryPartyRepo{parties: []Party{{
		ID:          "64af01",
		Type:        TypeCustomer,
		Code:        "C-17",
		Person:      "Imran Sons",
		Description: "Lahore",
		Phone:       "0300-1234567",
	}}}
	svc := NewService(repo, "92")

	for _, query := range []string{"64af01", "C-17", "Imran Sons", "Lahore"} {
		res, err := svc.Resolve(context.Background(), TypeCustomer, query)
		require.NoError(t, err)
		require.Equal(t, "Imran Sons (Lahore)", res.DisplayName)
		require.ElementsMatch(t, []string{"64af01", "C-17", "Imran Sons", "Lahore", "Imran Sons (Lahore)"}, res.Aliases)
		require.Equal(t, "923001234567", res.Phone)
	}
}

func TestResolveUnmatchedDegradesToRawQuery(t *testing.T) {
	svc := NewService(&memoryPartyRepo{}, "92")

	res, err := svc.Resolve(context.Background(), TypeSupplier, "Unknown Traders")
	require.NoError(t, err)
	require.Equal(t, "Unknown Traders", res.DisplayName)
	require.Equal(t, []string{"Unknown Traders"}, res.Aliases)
	require.Empty(t, res.Phone)
}

func TestResolveEmptyQueryIsValidationError(t *testing.T) {
	svc := NewService(&memoryPartyRepo{}, "92")

	_, err := svc.Resolve(context.Background(), TypeCustomer, "  ")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAliasSetDropsBlanksAndDuplicates(t *testing.T) {
	p := Party{ID: "p1", Code: "p1", Person: "Ali"}
	require.Equal(t, []string{"p1", "Ali"}, p.AliasSet())
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"0300-1234567", "923001234567"},
		{"+92 300 1234567", "923001234567"},
		{"923001234567", "923001234567"},
		{"(0300) 123 4567", "923001234567"},
		{"no digits here", ""},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizePhone(tc.raw, "92"), "raw=%q", tc.raw)
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType(" Customer ")
	require.NoError(t, err)
	require.Equal(t, TypeCustomer, got)

	_, err = ParseType("vendor")
	require.ErrorIs(t, err, shared.ErrValidation)
}
