package userdata

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists user-owned JSON documents. Every query is scoped by
// user id.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, record *models.UserData) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByUser returns the user's records ordered by id.
func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]models.UserData, error) {
	var rows []models.UserData
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Find(ctx context.Context, userID, id uint) (*models.UserData, error) {
	var record models.UserData
	if err := r.db.WithContext(ctx).First(&record, "user_id = ? AND id = ?", userID, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateData replaces the document and reports whether a row matched.
func (r *Repository) UpdateData(ctx context.Context, userID, id uint, data json.RawMessage) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserData{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(&models.UserData{Data: data})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the record and reports whether a row matched.
func (r *Repository) Delete(ctx context.Context, userID, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.UserData{}, "user_id = ? AND id = ?", userID, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
