package repositories

import (
	"reviewhub-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetBySlug(slug string) (*models.Category, error)
	GetList(params models.ListParams) ([]models.Category, int64, error)
	DeleteBySlug(slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	return &category, err
}

func (r *categoryRepository) GetList(params models.ListParams) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.Model(&models.Category{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	query.Count(&total)

	offset := (params.Page - 1) * params.Limit
	err := query.Order("slug asc").Offset(offset).Limit(params.Limit).Find(&categories).Error

	return categories, total, err
}

// DeleteBySlug nulls the category reference on every title before removing
// the category itself; titles survive their category.
func (r *categoryRepository) DeleteBySlug(slug string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("slug = ?", slug).First(&category).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Title{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}
