package services

import (
	"errors"

	"reviewhub-api/models"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

type GenreService interface {
	CreateGenre(req models.CreateGenreRequest) (*models.Genre, error)
	GetGenres(params models.ListParams) ([]models.Genre, int64, error)
	DeleteGenre(slug string) error
}

type genreService struct {
	genreRepo repositories.GenreRepository
}

func NewGenreService(genreRepo repositories.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) CreateGenre(req models.CreateGenreRequest) (*models.Genre, error) {
	if !models.SlugRX.MatchString(req.Slug) {
		return nil, models.ErrInvalidSlug
	}

	if _, err := s.genreRepo.GetBySlug(req.Slug); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(genre); err != nil {
		return nil, err
	}

	return genre, nil
}

func (s *genreService) GetGenres(params models.ListParams) ([]models.Genre, int64, error) {
	return s.genreRepo.GetList(params)
}

func (s *genreService) DeleteGenre(slug string) error {
	err := s.genreRepo.DeleteBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
