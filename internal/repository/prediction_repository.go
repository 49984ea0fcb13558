package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"medichat/internal/model"
)

type PredictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(prediction *model.Prediction) error {
	if err := r.db.Create(prediction).Error; err != nil {
		return fmt.Errorf("create prediction failed: %w", err)
	}
	return nil
}

func (r *PredictionRepository) GetByID(id uint) (*model.Prediction, error) {
	var prediction model.Prediction
	if err := r.db.First(&prediction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query prediction by id failed: %w", err)
	}
	return &prediction, nil
}

func (r *PredictionRepository) ListByUserID(userID uint) ([]model.Prediction, error) {
	var predictions []model.Prediction
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&predictions).Error; err != nil {
		return nil, fmt.Errorf("list predictions failed: %w", err)
	}
	return predictions, nil
}

func (r *PredictionRepository) ListAll() ([]model.Prediction, error) {
	var predictions []model.Prediction
	if err := r.db.Order("created_at DESC").Find(&predictions).Error; err != nil {
		return nil, fmt.Errorf("list all predictions failed: %w", err)
	}
	return predictions, nil
}
