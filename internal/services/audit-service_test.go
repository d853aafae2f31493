package services

import (
	"context"
	"fmt"
	"testing"

	"procurement-system/internal/entities"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditRecordSwallowsContention(t *testing.T) {
	for _, code := range []string{"40P01", "55P03"} {
		repo := &stubEventRepo{insertErr: &pgconn.PgError{Code: code}}
		svc := NewAuditService(repo, zap.NewNop())

		err := svc.Record(context.Background(), nil, entities.OrderEvent{OrderID: 1, Type: entities.EventOfferSelected})
		assert.NoError(t, err, "код %s должен глотаться", code)
	}
}

func TestAuditRecordPropagatesRealErrors(t *testing.T) {
	// нарушение внешнего ключа — это не конкуренция, а битые данные
	repo := &stubEventRepo{insertErr: &pgconn.PgError{Code: "23503"}}
	svc := NewAuditService(repo, zap.NewNop())
	assert.Error(t, svc.Record(context.Background(), nil, entities.OrderEvent{OrderID: 1}))

	repo = &stubEventRepo{insertErr: fmt.Errorf("connection reset")}
	svc = NewAuditService(repo, zap.NewNop())
	assert.Error(t, svc.Record(context.Background(), nil, entities.OrderEvent{OrderID: 1}))
}

func TestAuditRecordWritesEvent(t *testing.T) {
	repo := &stubEventRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	from, to := "open", "approved"
	err := svc.Record(context.Background(), nil, entities.OrderEvent{
		OrderID:    1,
		Type:       entities.EventItemStatusChange,
		FromStatus: &from,
		ToStatus:   &to,
		CreatedBy:  9,
	})
	require.NoError(t, err)
	require.Len(t, repo.events, 1)
	assert.Equal(t, entities.EventItemStatusChange, repo.events[0].Type)
}
