package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFxRepo struct {
	rate  float64
	err   error
	calls int
}

func (s *stubFxRepo) GetRate(ctx context.Context, from, to string) (float64, error) {
	s.calls++
	return s.rate, s.err
}

type stubCache struct {
	data    map[string]string
	getErr  error
	setErr  error
	setKeys []string
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("ключ не найден")
	}
	return v, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setKeys = append(s.setKeys, key)
	s.data[key] = fmt.Sprintf("%v", value)
	return nil
}

func (s *stubCache) Del(ctx context.Context, keys ...string) error { return nil }

func TestFxRateServiceCacheHit(t *testing.T) {
	repo := &stubFxRepo{rate: 92.5}
	cache := &stubCache{data: map[string]string{"fx:rate:USD:RUB": "91.75"}}
	svc := NewFxRateService(repo, cache, time.Minute, zap.NewNop())

	rate, err := svc.GetRate(context.Background(), "USD", "RUB", false)
	require.NoError(t, err)
	assert.InDelta(t, 91.75, rate, 1e-9)
	assert.Zero(t, repo.calls, "попадание в кэш не ходит в БД")
}

func TestFxRateServiceCacheMissFillsCache(t *testing.T) {
	repo := &stubFxRepo{rate: 92.5}
	cache := &stubCache{data: map[string]string{}}
	svc := NewFxRateService(repo, cache, time.Minute, zap.NewNop())

	rate, err := svc.GetRate(context.Background(), "usd", "rub", false)
	require.NoError(t, err)
	assert.InDelta(t, 92.5, rate, 1e-9)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, []string{"fx:rate:USD:RUB"}, cache.setKeys)
}

// refresh=true игнорирует кэш и перечитывает курс из БД.
func TestFxRateServiceForceRefresh(t *testing.T) {
	repo := &stubFxRepo{rate: 95}
	cache := &stubCache{data: map[string]string{"fx:rate:USD:RUB": "91.75"}}
	svc := NewFxRateService(repo, cache, time.Minute, zap.NewNop())

	rate, err := svc.GetRate(context.Background(), "USD", "RUB", true)
	require.NoError(t, err)
	assert.InDelta(t, 95, rate, 1e-9)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "95", cache.data["fx:rate:USD:RUB"])
}

// Битое значение в кэше и отказ записи не валят запрос.
func TestFxRateServiceToleratesCacheProblems(t *testing.T) {
	repo := &stubFxRepo{rate: 88}
	cache := &stubCache{data: map[string]string{"fx:rate:EUR:RUB": "not-a-number"}}
	svc := NewFxRateService(repo, cache, time.Minute, zap.NewNop())

	rate, err := svc.GetRate(context.Background(), "EUR", "RUB", false)
	require.NoError(t, err)
	assert.InDelta(t, 88, rate, 1e-9)

	cache.setErr = fmt.Errorf("redis down")
	rate, err = svc.GetRate(context.Background(), "EUR", "RUB", true)
	require.NoError(t, err)
	assert.InDelta(t, 88, rate, 1e-9)
}
