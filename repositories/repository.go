// Package repositories is the gorm persistence layer for both services:
// courses for the catalog, students and enrollments for the ledger.
package repositories

import (
	"errors"

	"courseledger/apperrors"

	"gorm.io/gorm"
)

// notFound translates gorm's missing-row error into the API taxonomy.
func notFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource, id)
	}
	return err
}

// duplicate translates a unique-index violation that slipped past the
// explicit existence checks.
func duplicate(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Business(message)
	}
	return err
}
