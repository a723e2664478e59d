package postgresql

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type stubTx struct {
	pgx.Tx
}

func TestGetQuerier_PrefersContextTx(t *testing.T) {
	db := &database.DB{}
	tx := &stubTx{}

	assert.Same(t, tx, GetQuerier(ContextWithTx(context.Background(), tx), db))

	_, isTx := GetQuerier(context.Background(), db).(*stubTx)
	assert.False(t, isTx)
}
