package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// StoreErrorKind — закрытый набор видов ошибок хранилища. Коды Postgres
// разбираются только здесь; бизнес-логика ветвится по этим видам и никогда
// не заглядывает в сырые коды драйвера.
type StoreErrorKind int

const (
	StoreErrOther StoreErrorKind = iota
	StoreErrNotFound
	StoreErrDuplicate
	StoreErrFKViolation
	StoreErrLockTimeout
	StoreErrDeadlock
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeFKViolation     = "23503"
	pgCodeLockNotAvail    = "55P03"
	pgCodeDeadlock        = "40P01"
)

func ClassifyStoreError(err error) StoreErrorKind {
	if errors.Is(err, pgx.ErrNoRows) {
		return StoreErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return StoreErrDuplicate
		case pgCodeFKViolation:
			return StoreErrFKViolation
		case pgCodeLockNotAvail:
			return StoreErrLockTimeout
		case pgCodeDeadlock:
			return StoreErrDeadlock
		}
	}

	return StoreErrOther
}

// IsContention — виды, из-за которых журнал аудита молча отступает:
// аудит не должен быть причиной отказа бизнес-операции.
func IsContention(kind StoreErrorKind) bool {
	return kind == StoreErrLockTimeout || kind == StoreErrDeadlock
}
