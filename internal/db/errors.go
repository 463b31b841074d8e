package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate — нарушение уникального ограничения (username, email, SKU и т.п.).
	ErrDuplicate = errors.New("duplicate key value")
	// ErrForeignKey — нарушение внешнего ключа.
	ErrForeignKey = errors.New("foreign key violation")
)

// ClassifyError переводит ошибку PostgreSQL в доменную: нарушения
// ограничений получают стабильный sentinel для errors.Is, остальные
// ошибки возвращаются как есть.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s: %w", ErrDuplicate, pgErr.ConstraintName, err)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s: %w", ErrForeignKey, pgErr.ConstraintName, err)
		}
	}

	return err
}
