// Package repository persists lab documents: one parent row plus its child
// collections, always written, replaced or removed in a single transaction.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
)

// PostgreSQL SQLSTATE codes the store reacts to.
const (
	PgErrUniqueViolation     = "23505"
	PgErrForeignKeyViolation = "23503"
)

// Options tune behaviour left open by the forms.
type Options struct {
	// TreatMissingAsNotFound makes Update and Delete of an unknown id fail
	// with a not-found error. When false they succeed without writing.
	TreatMissingAsNotFound bool
}

func DefaultOptions() Options {
	return Options{TreatMissingAsNotFound: true}
}

// Store owns the database handle shared by the per-type repositories.
type Store struct {
	db   *gorm.DB
	log  *logger.Logger
	opts Options
}

func NewStore(db *gorm.DB, log *logger.Logger, opts Options) *Store {
	return &Store{db: db, log: log.With("component", "repository"), opts: opts}
}

// DB exposes the handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// errNoRows aborts a transaction whose target row is gone when missing
// ids are tolerated; inTx rolls back and reports success.
var errNoRows = errors.New("no rows affected")

// inTx runs fn inside one transaction. The transaction is rolled back on
// every error path, including panics, and committed otherwise.
func (s *Store) inTx(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apierr.Persistence(tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
		if err != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, gorm.ErrInvalidTransaction) {
				s.log.Error("rollback failed", "error", rbErr)
			}
			if errors.Is(err, errNoRows) {
				err = nil
			}
		}
	}()

	if err = fn(tx); err != nil {
		return s.wrap(err)
	}
	if err = tx.Commit().Error; err != nil {
		return s.wrap(err)
	}
	return nil
}

// wrap turns raw database errors into persistence errors, leaving
// already classified errors untouched.
func (s *Store) wrap(err error) error {
	if err == nil || errors.Is(err, errNoRows) {
		return err
	}
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return err
	}
	s.log.Error("database operation failed", "error", err)
	return apierr.Persistence(err)
}

// missing is returned when an update or delete matched no parent row.
func (s *Store) missing(label string, id uint) error {
	if s.opts.TreatMissingAsNotFound {
		return apierr.NotFound(fmt.Sprintf("%s %d not found", label, id))
	}
	return errNoRows
}

// first loads a parent row, mapping absence to a not-found error.
func first(tx *gorm.DB, dest any, id uint, label string) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound(fmt.Sprintf("%s %d not found", label, id))
		}
		return err
	}
	return nil
}

// replaceParent overwrites every scalar column of the parent except id
// and created_at. Zero rows affected means the id does not exist.
func replaceParent(tx *gorm.DB, model any, id uint) (bool, error) {
	res := tx.Model(model).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// deleteChildren removes every row referencing documentID from each
// child table.
func deleteChildren(tx *gorm.DB, documentID uint, children ...any) error {
	for _, m := range children {
		if err := tx.Where("document_id = ?", documentID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteDocument removes children then the parent.
func (s *Store) deleteDocument(ctx context.Context, label string, id uint, parent any, children ...any) error {
	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id, children...); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(parent)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.missing(label, id)
		}
		s.log.Info("document deleted", "type", label, "id", id)
		return nil
	})
}

// createRows inserts a slice of child rows; an empty slice is a no-op.
func createRows[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// listParents loads parent rows newest first.
func listParents[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var out []T
	if err := db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, apierr.Persistence(err)
	}
	return out, nil
}

// requireHeader checks the tanggal/shift pair most sheets need.
func requireHeader(h models.HeaderPayload) []string {
	var missing []string
	if h.Tanggal.IsZero() {
		missing = append(missing, "tanggal is required")
	}
	if strings.TrimSpace(h.ShiftGroup) == "" {
		missing = append(missing, "shift_group is required")
	}
	return missing
}

// IsUniqueViolation reports a unique-constraint failure from postgres or
// sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == PgErrUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
