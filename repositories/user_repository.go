package repositories

import (
	"reviewhub-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetList(params models.ListParams) ([]models.User, int64, error)
	Update(user *models.User) error
	Delete(user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) GetList(params models.ListParams) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("username LIKE ?", like)
	}

	query.Count(&total)

	offset := (params.Page - 1) * params.Limit
	err := query.Order("username asc").Offset(offset).Limit(params.Limit).Find(&users).Error

	return users, total, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes the user together with their reviews and comments, and
// the comments left by others under those reviews.
func (r *userRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"author_id = ? OR review_id IN (SELECT id FROM reviews WHERE author_id = ?)",
			user.ID, user.ID,
		).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
}
