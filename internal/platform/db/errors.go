package db

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/millbooks-erp/millbooks/internal/shared"
)

// ClassifyError tags infrastructure failures as shared.ErrUnavailable so the
// HTTP layer can mark them retryable. Query-shaped errors pass through.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	var connectErr *pgconn.ConnectError
	switch {
	case errors.As(err, &connectErr),
		errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %v", op, shared.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
