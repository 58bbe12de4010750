package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarhq/bazaar-backend/pkg/db/models"
)

// Repository exposes persistence helpers for cart lines.
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	GetLine(ctx context.Context, userID, productID uuid.UUID, variantOptionID *uuid.UUID) (*models.CartItem, error)
	GetLineByID(ctx context.Context, userID, lineID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, lineID uuid.UUID) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) GetLine(ctx context.Context, userID, productID uuid.UUID, variantOptionID *uuid.UUID) (*models.CartItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID)
	if variantOptionID == nil {
		query = query.Where("variant_option_id IS NULL")
	} else {
		query = query.Where("variant_option_id = ?", *variantOptionID)
	}

	var item models.CartItem
	err := query.First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) GetLineByID(ctx context.Context, userID, lineID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "id = ? AND user_id = ?", lineID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) Create(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", lineID).
		UpdateColumn("quantity", quantity).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, lineID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
