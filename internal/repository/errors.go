package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUniqueViolation    = errors.New("unique constraint violation")
	ErrRequiredField      = errors.New("required field missing")
	ErrReferenceViolation = errors.New("referenced row does not exist")
)

// postgres SQLSTATE, class 23 (integrity constraint violation)
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// Error 引擎错误：Kind 为分类哨兵，Err 为驱动原始错误
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Err.Error() }

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// classify 将 gorm / 驱动错误归类，原始错误仍可通过 errors.As 取得
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: ErrNotFound, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: ErrUniqueViolation, Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &Error{Kind: ErrUniqueViolation, Err: err}
		case sqlite3.ErrConstraintNotNull:
			return &Error{Kind: ErrRequiredField, Err: err}
		case sqlite3.ErrConstraintForeignKey:
			return &Error{Kind: ErrReferenceViolation, Err: err}
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &Error{Kind: ErrUniqueViolation, Err: err}
		case pgNotNullViolation:
			return &Error{Kind: ErrRequiredField, Err: err}
		case pgForeignKeyViolation:
			return &Error{Kind: ErrReferenceViolation, Err: err}
		}
	}
	return err
}

// affected 将删除/更新未命中行的情况视为 ErrNotFound
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return classify(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return &Error{Kind: ErrNotFound, Err: gorm.ErrRecordNotFound}
	}
	return nil
}
