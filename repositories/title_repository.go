package repositories

import (
	"strings"

	"reviewhub-api/models"

	"gorm.io/gorm"
)

type TitleRepository interface {
	Create(title *models.Title) error
	GetByID(id uint) (*models.Title, error)
	GetList(params models.TitleListParams) ([]models.Title, int64, error)
	Update(title *models.Title) error
	ReplaceGenres(title *models.Title, genres []models.Genre) error
	Delete(id uint) error
	Rating(titleID uint) (*float64, error)
	Ratings(titleIDs []uint) (map[uint]float64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(title *models.Title) error {
	return r.db.Create(title).Error
}

func (r *titleRepository) GetByID(id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.Preload("Category").Preload("Genres").First(&title, id).Error
	return &title, err
}

func (r *titleRepository) GetList(params models.TitleListParams) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	query := r.db.Model(&models.Title{}).Preload("Category").Preload("Genres")

	if params.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", params.Category)
	}

	if params.Genre != "" {
		query = query.Joins("JOIN genre_titles ON genre_titles.title_id = titles.id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", params.Genre)
	}

	if params.Name != "" {
		query = query.Where("LOWER(titles.name) LIKE ?", "%"+strings.ToLower(params.Name)+"%")
	}

	if params.Year != nil {
		query = query.Where("titles.year = ?", *params.Year)
	}

	query.Count(&total)

	offset := (params.Page - 1) * params.Limit
	err := query.Order("titles.id asc").Offset(offset).Limit(params.Limit).Find(&titles).Error

	return titles, total, err
}

func (r *titleRepository) Update(title *models.Title) error {
	// Save skips nil pointer columns, so a category cleared to nil has to
	// be written explicitly.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres").Save(title).Error; err != nil {
			return err
		}
		return tx.Model(&models.Title{}).
			Where("id = ?", title.ID).
			Update("category_id", title.CategoryID).Error
	})
}

func (r *titleRepository) ReplaceGenres(title *models.Title, genres []models.Genre) error {
	return r.db.Model(title).Association("Genres").Replace(genres)
}

// Delete cascades: comments under the title's reviews, the reviews, the
// genre links and finally the title row.
func (r *titleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"review_id IN (SELECT id FROM reviews WHERE title_id = ?)", id,
		).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM genre_titles WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Title{}, id).Error
	})
}

// Rating is the arithmetic mean of the title's review scores, nil when
// the title has no reviews. It is computed on demand, never stored.
func (r *titleRepository) Rating(titleID uint) (*float64, error) {
	var rating *float64
	err := r.db.Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&rating).Error
	return rating, err
}

func (r *titleRepository) Ratings(titleIDs []uint) (map[uint]float64, error) {
	ratings := make(map[uint]float64)
	if len(titleIDs) == 0 {
		return ratings, nil
	}

	var results []struct {
		TitleID uint
		Rating  float64
	}

	err := r.db.Model(&models.Review{}).
		Where("title_id IN ?", titleIDs).
		Select("title_id, AVG(score) as rating").
		Group("title_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		ratings[result.TitleID] = result.Rating
	}

	return ratings, nil
}
