package services

import (
	"context"

	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"

	"go.uber.org/zap"
)

type ClientServiceInterface interface {
	FindClient(ctx context.Context, id uint64) (*dto.ClientDTO, error)
	UpdateClient(ctx context.Context, id uint64, in dto.UpdateClientDTO) (*dto.ClientDTO, error)
}

type ClientService struct {
	clientRepo repositories.ClientRepositoryInterface
	logger     *zap.Logger
}

func NewClientService(clientRepo repositories.ClientRepositoryInterface, logger *zap.Logger) ClientServiceInterface {
	return &ClientService{clientRepo: clientRepo, logger: logger}
}

func clientToDTO(c entities.Client) dto.ClientDTO {
	return dto.ClientDTO{
		ID:      c.ID,
		Name:    c.Name,
		Inn:     c.Inn,
		Email:   c.Email,
		Phone:   c.Phone,
		Version: c.Version,
	}
}

func (s *ClientService) FindClient(ctx context.Context, id uint64) (*dto.ClientDTO, error) {
	client, err := s.clientRepo.FindClient(ctx, id)
	if err != nil {
		return nil, err
	}
	result := clientToDTO(*client)
	return &result, nil
}

// UpdateClient применяет изменения поверх присланной версии. Устаревшая версия
// даёт 409 с актуальным состоянием карточки в теле — фронт перерисует форму.
func (s *ClientService) UpdateClient(ctx context.Context, id uint64, in dto.UpdateClientDTO) (*dto.ClientDTO, error) {
	current, err := s.clientRepo.FindClient(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if in.Name.Valid {
		updated.Name = in.Name.String
	}
	if in.Inn.Valid {
		updated.Inn = in.Inn.Ptr()
	}
	if in.Email.Valid {
		updated.Email = in.Email.Ptr()
	}
	if in.Phone.Valid {
		updated.Phone = in.Phone.Ptr()
	}

	saved, err := s.clientRepo.UpdateClient(ctx, id, in.Version, updated)
	if err != nil {
		return nil, err
	}
	result := clientToDTO(*saved)
	return &result, nil
}
