package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"procurement-system/internal/repositories"

	"go.uber.org/zap"
)

type FxRateServiceInterface interface {
	GetRate(ctx context.Context, from string, to string, forceRefresh bool) (float64, error)
}

type FxRateService struct {
	fxRepo    repositories.FxRateRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewFxRateService(
	fxRepo repositories.FxRateRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) FxRateServiceInterface {
	return &FxRateService{
		fxRepo:    fxRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func fxCacheKey(from, to string) string {
	return fmt.Sprintf("fx:rate:%s:%s", strings.ToUpper(from), strings.ToUpper(to))
}

// GetRate отдаёт курс из кэша, при промахе или forceRefresh — из БД с записью
// обратно в кэш. Отказ кэша не валит запрос: курс всё равно берётся из БД.
func (s *FxRateService) GetRate(ctx context.Context, from string, to string, forceRefresh bool) (float64, error) {
	key := fxCacheKey(from, to)

	if !forceRefresh {
		cached, err := s.cacheRepo.Get(ctx, key)
		if err == nil && cached != "" {
			rate, parseErr := strconv.ParseFloat(cached, 64)
			if parseErr == nil {
				return rate, nil
			}
			s.logger.Warn("битое значение курса в кэше", zap.String("key", key), zap.String("value", cached))
		}
	}

	rate, err := s.fxRepo.GetRate(ctx, from, to)
	if err != nil {
		return 0, err
	}

	if err := s.cacheRepo.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), s.cacheTTL); err != nil {
		s.logger.Warn("не удалось записать курс в кэш", zap.String("key", key), zap.Error(err))
	}

	return rate, nil
}
