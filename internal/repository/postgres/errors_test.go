package postgres

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rove/internal/domain"
)

func TestIsPgDuplicateError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !IsPgDuplicateError(fmt.Errorf("insert: %w", dup)) {
		t.Error("wrapped unique violation not detected")
	}
	if IsPgDuplicateError(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation reported as duplicate")
	}
	if !IsPgForeignKeyError(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation not detected")
	}
}

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{
			name:            "network error",
			err:             &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantUnavailable: true,
		},
		{
			name:            "no rows",
			err:             pgx.ErrNoRows,
			wantUnavailable: false,
		},
		{
			name:            "server error",
			err:             &pgconn.PgError{Code: "42P01", Message: "relation does not exist"},
			wantUnavailable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapErr("get entry", tt.err)
			if got := errors.Is(wrapped, domain.ErrStoreUnavailable); got != tt.wantUnavailable {
				t.Errorf("errors.Is(ErrStoreUnavailable) = %v, want %v", got, tt.wantUnavailable)
			}
			if !errors.Is(wrapped, tt.err) {
				t.Error("original error lost in wrapping")
			}
		})
	}
}
