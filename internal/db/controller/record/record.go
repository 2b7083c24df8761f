// Package record provides a whitelisted partial update for any model.
package record

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/apperror"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNoChanges is returned when the change set is empty.
	ErrNoChanges = apperror.Validation("nothing to update")
)

// ColumnError names columns that may not be changed.
type ColumnError struct {
	Columns []string
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	return "field not allowed: " + strings.Join(e.Columns, ", ")
}

// Unwrap makes errors.Is(err, apperror.ErrValidation) hold.
func (e *ColumnError) Unwrap() error {
	return apperror.ErrValidation
}

// Update applies changes to the row of model with primary key id.
// Only columns listed in allowed may appear in changes. Model hooks are not
// run, so values must already be in storage form. A missing row yields
// apperror.KindNotFound.
func Update(db *gorm.DB, model any, id any, changes map[string]any, allowed ...string) error {
	if db == nil {
		return ErrDBNil
	}

	if len(changes) == 0 {
		return ErrNoChanges
	}

	var rejected []string

	for column := range changes {
		if !slices.Contains(allowed, column) {
			rejected = append(rejected, column)
		}
	}

	if len(rejected) > 0 {
		sort.Strings(rejected)
		return &ColumnError{Columns: rejected}
	}

	result := db.Session(&gorm.Session{SkipHooks: true}).
		Model(model).
		Where("id = ?", id).
		Updates(changes)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, result.Error, "record already exists")
		}

		return apperror.Internal(result.Error, "failed to update record")
	}

	if result.RowsAffected == 0 {
		return apperror.NotFound("record not found")
	}

	return nil
}
