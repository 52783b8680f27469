package services

import (
	"errors"
	"strings"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func loadErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFoundError("%s not found", entity)
	}
	return utils.PersistenceError(err, "Failed to load "+strings.ToLower(entity))
}

// ensureAccountUnique rejects a username or email already held by another
// account. exclude is the account being updated, or uuid.Nil.
func ensureAccountUnique(tx *gorm.DB, username, email string, exclude uuid.UUID) error {
	check := func(column, value, label string) error {
		if value == "" {
			return nil
		}
		q := tx.Model(&models.User{}).Where(column+" = ?", value)
		if exclude != uuid.Nil {
			q = q.Where("id <> ?", exclude)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return utils.PersistenceError(err, "Failed to check existing accounts")
		}
		if count > 0 {
			return utils.ConflictError("%s is already registered", label)
		}
		return nil
	}

	if err := check("username", username, "Username"); err != nil {
		return err
	}
	return check("email", email, "Email")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
