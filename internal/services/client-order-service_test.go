package services

import (
	"context"
	"fmt"
	"testing"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Транзакция в юнит-тестах — сквозной вызов: логика сервиса от неё не зависит.
type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type stubItemRepo struct {
	repositories.OrderItemRepositoryInterface
	items         map[uint64]entities.OrderItem
	decisionCalls []string
}

func (s *stubItemRepo) FindItem(ctx context.Context, id uint64) (*entities.OrderItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &it, nil
}

func (s *stubItemRepo) FindItemTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.OrderItem, error) {
	return s.FindItem(ctx, id)
}

func (s *stubItemRepo) SetDecisionInTx(ctx context.Context, tx pgx.Tx, itemID uint64, offerID uint64, status string) error {
	s.decisionCalls = append(s.decisionCalls, fmt.Sprintf("%d->%d:%s", itemID, offerID, status))
	it := s.items[itemID]
	it.DecisionOfferID = &offerID
	it.Status = status
	s.items[itemID] = it
	return nil
}

type stubOfferRepo struct {
	repositories.OfferRepositoryInterface
	offers       map[uint64]entities.Offer
	visibleCalls []uint64
}

func (s *stubOfferRepo) FindOffer(ctx context.Context, id uint64) (*entities.Offer, error) {
	o, ok := s.offers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (s *stubOfferRepo) FindOfferTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Offer, error) {
	return s.FindOffer(ctx, id)
}

func (s *stubOfferRepo) GetOffersByItem(ctx context.Context, itemID uint64) ([]entities.Offer, error) {
	var result []entities.Offer
	for _, o := range s.offers {
		if o.OrderItemID == itemID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (s *stubOfferRepo) SetClientVisibleInTx(ctx context.Context, tx pgx.Tx, id uint64, visible bool) error {
	s.visibleCalls = append(s.visibleCalls, id)
	o := s.offers[id]
	o.ClientVisible = visible
	s.offers[id] = o
	return nil
}

type stubEventRepo struct {
	events    []entities.OrderEvent
	insertErr error
}

func (s *stubEventRepo) Insert(ctx context.Context, q repositories.Querier, ev entities.OrderEvent) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *stubEventRepo) GetByOrder(ctx context.Context, orderID uint64, filter types.Filter) ([]entities.OrderEvent, uint64, error) {
	return s.events, uint64(len(s.events)), nil
}

func newDecisionFixture(t *testing.T) (*ClientOrderService, *stubItemRepo, *stubOfferRepo, *stubEventRepo) {
	t.Helper()

	itemRepo := &stubItemRepo{items: map[uint64]entities.OrderItem{
		10: {ID: 10, OrderID: 1, LineNumber: 1, Status: entities.OrderItemStatusOpen},
		11: {ID: 11, OrderID: 1, LineNumber: 2, Status: entities.OrderItemStatusOpen},
	}}
	offerRepo := &stubOfferRepo{offers: map[uint64]entities.Offer{
		100: {ID: 100, OrderItemID: 10, Status: entities.OfferStatusProposed},
		200: {ID: 200, OrderItemID: 11, Status: entities.OfferStatusProposed},
	}}
	eventRepo := &stubEventRepo{}

	svc := &ClientOrderService{
		itemRepo:  itemRepo,
		offerRepo: offerRepo,
		txManager: stubTxManager{},
		audit:     NewAuditService(eventRepo, zap.NewNop()),
		logger:    zap.NewNop(),
	}
	return svc, itemRepo, offerRepo, eventRepo
}

func TestDecideSelectsOwnOffer(t *testing.T) {
	svc, itemRepo, offerRepo, eventRepo := newDecisionFixture(t)
	p := authz.Principal{UserID: 5, Admin: true}

	item, err := svc.Decide(context.Background(), p, 10, dto.DecisionDTO{OfferID: 100})
	require.NoError(t, err)

	assert.Equal(t, entities.OrderItemStatusApproved, item.Status)
	require.NotNil(t, item.DecisionOfferID)
	assert.Equal(t, uint64(100), *item.DecisionOfferID)

	assert.Equal(t, []string{"10->100:approved"}, itemRepo.decisionCalls)
	assert.Equal(t, []uint64{100}, offerRepo.visibleCalls)
	assert.True(t, offerRepo.offers[100].ClientVisible)
	// соседний оффер не тронут
	assert.False(t, offerRepo.offers[200].ClientVisible)

	require.Len(t, eventRepo.events, 1)
	ev := eventRepo.events[0]
	assert.Equal(t, entities.EventOfferSelected, ev.Type)
	assert.Equal(t, uint64(1), ev.OrderID)
	require.NotNil(t, ev.FromStatus)
	assert.Equal(t, entities.OrderItemStatusOpen, *ev.FromStatus)
	require.NotNil(t, ev.ToStatus)
	assert.Equal(t, entities.OrderItemStatusApproved, *ev.ToStatus)
	assert.Equal(t, uint64(5), ev.CreatedBy)
}

// Чужой оффер неотличим от несуществующего, и ни одна запись не происходит.
func TestDecideRejectsForeignOffer(t *testing.T) {
	svc, itemRepo, offerRepo, eventRepo := newDecisionFixture(t)
	p := authz.Principal{UserID: 5, Admin: true}

	_, err := svc.Decide(context.Background(), p, 10, dto.DecisionDTO{OfferID: 200})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)

	assert.Empty(t, itemRepo.decisionCalls)
	assert.Empty(t, offerRepo.visibleCalls)
	assert.Empty(t, eventRepo.events)
	assert.Equal(t, entities.OrderItemStatusOpen, itemRepo.items[10].Status)
}

func TestDecideUnknownItemOrOffer(t *testing.T) {
	svc, _, _, eventRepo := newDecisionFixture(t)
	p := authz.Principal{UserID: 5, Admin: true}

	_, err := svc.Decide(context.Background(), p, 777, dto.DecisionDTO{OfferID: 100})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Decide(context.Background(), p, 10, dto.DecisionDTO{OfferID: 777})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Empty(t, eventRepo.events)
}
