package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
)

func (r *GormRepo) ServiceByID(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

func (r *GormRepo) ListServices(ctx context.Context, offset, limit int) ([]models.Service, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Service{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Service
	if err := r.DB.WithContext(ctx).Model(&models.Service{}).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) CreateService(ctx context.Context, svc *models.Service) error {
	return r.DB.WithContext(ctx).Create(svc).Error
}

func (r *GormRepo) SaveService(ctx context.Context, svc *models.Service) error {
	return r.DB.WithContext(ctx).Save(svc).Error
}

func (r *GormRepo) DeleteService(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Service{}, id).Error
}
