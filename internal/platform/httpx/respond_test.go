package httpx

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

func TestRespondErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("ledger %q: %w", "x", shared.ErrNotFound), 404},
		{"validation", shared.Validationf("bad range"), 400},
		{"unavailable", fmt.Errorf("reports: %w", shared.ErrUnavailable), 503},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondErrorUnavailableSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("pool down: %w", shared.ErrUnavailable))
	require.Equal(t, "5", rec.Header().Get("Retry-After"))
}

func TestRespondErrorHidesUnclassifiedDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, shared.Validationf("boom"))
	require.Contains(t, rec.Body.String(), "boom")

	rec = httptest.NewRecorder()
	RespondError(rec, errUnexpected{})
	require.Equal(t, 500, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret")
}

type errUnexpected struct{}

func (errUnexpected) Error() string { return "secret internal state" }
