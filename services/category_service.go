package services

import (
	"errors"

	"reviewhub-api/models"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(req models.CreateCategoryRequest) (*models.Category, error)
	GetCategories(params models.ListParams) ([]models.Category, int64, error)
	DeleteCategory(slug string) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(req models.CreateCategoryRequest) (*models.Category, error) {
	if !models.SlugRX.MatchString(req.Slug) {
		return nil, models.ErrInvalidSlug
	}

	if _, err := s.categoryRepo.GetBySlug(req.Slug); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) GetCategories(params models.ListParams) ([]models.Category, int64, error) {
	return s.categoryRepo.GetList(params)
}

func (s *categoryService) DeleteCategory(slug string) error {
	err := s.categoryRepo.DeleteBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
