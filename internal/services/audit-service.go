package services

import (
	"context"

	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuditServiceInterface interface {
	Record(ctx context.Context, tx pgx.Tx, ev entities.OrderEvent) error
	GetOrderEvents(ctx context.Context, orderID uint64, filter types.Filter) ([]dto.OrderEventDTO, uint64, error)
}

type AuditService struct {
	eventRepo repositories.OrderEventRepositoryInterface
	logger    *zap.Logger
}

func NewAuditService(eventRepo repositories.OrderEventRepositoryInterface, logger *zap.Logger) AuditServiceInterface {
	return &AuditService{eventRepo: eventRepo, logger: logger}
}

// Record пишет событие журнала. Дедлок и таймаут блокировки на журнале
// глотаются с предупреждением: бизнес-операцию из-за журнала не откатываем.
// Любая другая ошибка (нарушение ограничений, обрыв соединения) поднимается
// наверх и откатывает транзакцию вместе с мутацией.
func (s *AuditService) Record(ctx context.Context, tx pgx.Tx, ev entities.OrderEvent) error {
	err := s.eventRepo.Insert(ctx, tx, ev)
	if err == nil {
		return nil
	}

	if repositories.IsContention(repositories.ClassifyStoreError(err)) {
		s.logger.Warn("событие журнала потеряно из-за конкуренции за блокировку",
			zap.Uint64("order_id", ev.OrderID),
			zap.String("type", ev.Type),
			zap.Error(err))
		return nil
	}

	return err
}

func (s *AuditService) GetOrderEvents(ctx context.Context, orderID uint64, filter types.Filter) ([]dto.OrderEventDTO, uint64, error) {
	events, total, err := s.eventRepo.GetByOrder(ctx, orderID, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.OrderEventDTO, 0, len(events))
	for _, ev := range events {
		dtos = append(dtos, dto.OrderEventToDTO(ev))
	}
	return dtos, total, nil
}
