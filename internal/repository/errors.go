package repository

import (
	"errors"
	"fmt"

	"neowatch/internal/models"

	"gorm.io/gorm"
)

// mapError translates gorm errors into model sentinels. Foreign key
// violations mean the referenced row is gone, so they map to ErrNotFound.
func mapError(err error, entity string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%s %v: %w", entity, id, models.ErrNotFound)
	}
	return fmt.Errorf("%s %v: %w", entity, id, err)
}
