package repositories

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestClassifyStoreError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected StoreErrorKind
	}{
		{"нет строк", pgx.ErrNoRows, StoreErrNotFound},
		{"обёрнутый ErrNoRows", fmt.Errorf("поиск: %w", pgx.ErrNoRows), StoreErrNotFound},
		{"нарушение уникальности", pgError("23505"), StoreErrDuplicate},
		{"нарушение внешнего ключа", pgError("23503"), StoreErrFKViolation},
		{"таймаут блокировки", pgError("55P03"), StoreErrLockTimeout},
		{"дедлок", pgError("40P01"), StoreErrDeadlock},
		{"неизвестный код", pgError("42601"), StoreErrOther},
		{"обычная ошибка", fmt.Errorf("connection refused"), StoreErrOther},
		{"nil", nil, StoreErrOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyStoreError(tc.err))
		})
	}
}

// Аудит отступает только перед конкуренцией за блокировки, всё остальное —
// настоящая ошибка.
func TestIsContention(t *testing.T) {
	assert.True(t, IsContention(StoreErrLockTimeout))
	assert.True(t, IsContention(StoreErrDeadlock))

	assert.False(t, IsContention(StoreErrDuplicate))
	assert.False(t, IsContention(StoreErrFKViolation))
	assert.False(t, IsContention(StoreErrNotFound))
	assert.False(t, IsContention(StoreErrOther))
}
