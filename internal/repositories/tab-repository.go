package repositories

import (
	"context"
	"errors"
	"fmt"

	"procurement-system/internal/entities"
	apperrors "procurement-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tabTable = "tabs"
const tabFields = "id, tab_name, path, icon, sort_order, is_active, created_at, updated_at"

type TabSortEntry struct {
	ID        uint64
	SortOrder int
}

type TabRepositoryInterface interface {
	GetTabs(ctx context.Context) ([]entities.Tab, error)
	GetTabsForRole(ctx context.Context, roleID uint64) ([]entities.Tab, error)
	FindTab(ctx context.Context, id uint64) (*entities.Tab, error)
	FindTabByPathOrName(ctx context.Context, key string) (*entities.Tab, error)
	CreateTab(ctx context.Context, tab entities.Tab) (*entities.Tab, error)
	UpdateTab(ctx context.Context, id uint64, tab entities.Tab) (*entities.Tab, error)
	DeleteTabInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	UpdateSortOrderInTx(ctx context.Context, tx pgx.Tx, entries []TabSortEntry) error

	// authz.PermissionStore
	HasViewPermission(ctx context.Context, roleID uint64, keys []string) (bool, error)
	ResolveTabID(ctx context.Context, keys []string) (uint64, bool, error)
}

type TabRepository struct {
	storage *pgxpool.Pool
}

func NewTabRepository(storage *pgxpool.Pool) TabRepositoryInterface {
	return &TabRepository{storage: storage}
}

func (r *TabRepository) scanTab(row pgx.Row) (*entities.Tab, error) {
	var t entities.Tab
	if err := row.Scan(
		&t.ID, &t.TabName, &t.Path, &t.Icon,
		&t.SortOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TabRepository) GetTabs(ctx context.Context) ([]entities.Tab, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY sort_order, id`, tabFields, tabTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка вкладок: %w", err)
	}
	defer rows.Close()

	tabs := make([]entities.Tab, 0)
	for rows.Next() {
		var t entities.Tab
		if err := rows.Scan(
			&t.ID, &t.TabName, &t.Path, &t.Icon,
			&t.SortOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вкладки: %w", err)
		}
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

// GetTabsForRole возвращает только вкладки, на которые у роли есть строка
// с can_view = true. Отсутствие строки — запрет.
func (r *TabRepository) GetTabsForRole(ctx context.Context, roleID uint64) ([]entities.Tab, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s t
		WHERE t.is_active
		  AND EXISTS (
			SELECT 1 FROM role_permissions rp
			WHERE rp.tab_id = t.id AND rp.role_id = $1 AND rp.can_view
		  )
		ORDER BY t.sort_order, t.id`,
		"t.id, t.tab_name, t.path, t.icon, t.sort_order, t.is_active, t.created_at, t.updated_at", tabTable)

	rows, err := r.storage.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вкладок роли: %w", err)
	}
	defer rows.Close()

	tabs := make([]entities.Tab, 0)
	for rows.Next() {
		var t entities.Tab
		if err := rows.Scan(
			&t.ID, &t.TabName, &t.Path, &t.Icon,
			&t.SortOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вкладки роли: %w", err)
		}
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

func (r *TabRepository) FindTab(ctx context.Context, id uint64) (*entities.Tab, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, tabFields, tabTable)
	tab, err := r.scanTab(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return tab, nil
}

// FindTabByPathOrName нужен сервису, чтобы показать клиенту текущее состояние
// строки, с которой случился конфликт уникальности.
func (r *TabRepository) FindTabByPathOrName(ctx context.Context, key string) (*entities.Tab, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE path = $1 OR tab_name = $1 LIMIT 1`, tabFields, tabTable)
	tab, err := r.scanTab(r.storage.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return tab, nil
}

func (r *TabRepository) CreateTab(ctx context.Context, tab entities.Tab) (*entities.Tab, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (tab_name, path, icon, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, tabTable, tabFields)

	created, err := r.scanTab(r.storage.QueryRow(ctx, query,
		tab.TabName, tab.Path, tab.Icon, tab.SortOrder, tab.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании вкладки: %w", err)
	}
	return created, nil
}

func (r *TabRepository) UpdateTab(ctx context.Context, id uint64, tab entities.Tab) (*entities.Tab, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET tab_name = $1, path = $2, icon = $3, sort_order = $4, is_active = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING %s`, tabTable, tabFields)

	updated, err := r.scanTab(r.storage.QueryRow(ctx, query,
		tab.TabName, tab.Path, tab.Icon, tab.SortOrder, tab.IsActive, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при обновлении вкладки: %w", err)
	}
	return updated, nil
}

// DeleteTabInTx сперва подчищает строки role_permissions вкладки: ссылочная
// уборка лежит на вызывающем, каскада на уровне схемы может не быть.
func (r *TabRepository) DeleteTabInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE tab_id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления прав вкладки: %w", err)
	}

	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tabTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TabRepository) UpdateSortOrderInTx(ctx context.Context, tx pgx.Tx, entries []TabSortEntry) error {
	for _, e := range entries {
		result, err := tx.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET sort_order = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, tabTable),
			e.SortOrder, e.ID)
		if err != nil {
			return fmt.Errorf("ошибка обновления порядка вкладки %d: %w", e.ID, err)
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
	}
	return nil
}

func (r *TabRepository) HasViewPermission(ctx context.Context, roleID uint64, keys []string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM role_permissions rp
			JOIN tabs t ON t.id = rp.tab_id
			WHERE rp.role_id = $1
			  AND rp.can_view
			  AND (t.tab_name = ANY($2) OR t.path = ANY($2))
		)`

	var allowed bool
	if err := r.storage.QueryRow(ctx, query, roleID, keys).Scan(&allowed); err != nil {
		return false, fmt.Errorf("ошибка проверки прав роли: %w", err)
	}
	return allowed, nil
}

func (r *TabRepository) ResolveTabID(ctx context.Context, keys []string) (uint64, bool, error) {
	query := `SELECT id FROM tabs WHERE tab_name = ANY($1) OR path = ANY($1) LIMIT 1`

	var id uint64
	if err := r.storage.QueryRow(ctx, query, keys).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ошибка поиска вкладки: %w", err)
	}
	return id, true, nil
}
