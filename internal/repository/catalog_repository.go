package repository

import (
	"context"

	"study_rewards_backend/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository 只读访问科目和章节
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).Order("display_order ASC, id ASC").Find(&subjects).Error
	return subjects, err
}

func (r *CatalogRepository) ListPublishedChapters(ctx context.Context) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.WithContext(ctx).
		Where("is_published = ?", true).
		Order("display_order ASC, id ASC").
		Find(&chapters).Error
	return chapters, err
}
