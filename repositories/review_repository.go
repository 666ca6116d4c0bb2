package repositories

import (
	"reviewhub-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	GetByTitleAndID(titleID, id uint) (*models.Review, error)
	GetListByTitle(titleID uint, params models.ListParams) ([]models.Review, int64, error)
	ExistsForAuthor(titleID, authorID uint) (bool, error)
	Update(review *models.Review) error
	Delete(id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) GetByTitleAndID(titleID, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Author").
		Where("title_id = ? AND id = ?", titleID, id).
		First(&review).Error
	return &review, err
}

func (r *reviewRepository) GetListByTitle(titleID uint, params models.ListParams) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.Model(&models.Review{}).Preload("Author").Where("title_id = ?", titleID)

	query.Count(&total)

	offset := (params.Page - 1) * params.Limit
	err := query.Order("pub_date desc").Offset(offset).Limit(params.Limit).Find(&reviews).Error

	return reviews, total, err
}

func (r *reviewRepository) ExistsForAuthor(titleID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete removes the review and its comments.
func (r *reviewRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, id).Error
	})
}
