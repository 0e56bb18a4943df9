//go:build unit

package uow

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"lottery-sales/internal/infra"
	"lottery-sales/internal/pkg/errs"
)

func TestFinalizeTxError(t *testing.T) {
	t.Run("transient failures carry the retry sentinel", func(t *testing.T) {
		for _, code := range []string{"40001", "40P01", "55P03"} {
			err := errs.Wrap(&pgconn.PgError{Code: code}, "failed to reserve quota")
			assert.ErrorIs(t, finalizeTxError(err), ErrMaxRetriesExceeded, "code %s", code)
		}
	})

	t.Run("constraint violations keep their own kind", func(t *testing.T) {
		fk := infra.WrapRepoErr("failed to create ticket",
			&pgconn.PgError{Code: "23503"}, infra.KindForeignKeyViolated)

		out := finalizeTxError(fk)

		assert.False(t, errors.Is(out, ErrMaxRetriesExceeded))
		assert.True(t, infra.IsKind(out, infra.KindForeignKeyViolated))
	})

	t.Run("plain errors pass through unmarked", func(t *testing.T) {
		err := errors.New("connection refused")
		assert.False(t, errors.Is(finalizeTxError(err), ErrMaxRetriesExceeded))
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "55P03"}))
	assert.False(t, IsRetryableError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsRetryableError(errors.New("not a pg error")))
}
