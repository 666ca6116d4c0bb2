package services

import (
	"errors"
	"time"

	"reviewhub-api/models"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

type TitleService interface {
	CreateTitle(req models.CreateTitleRequest) (*models.TitleView, error)
	GetTitle(id uint) (*models.TitleView, error)
	GetTitles(params models.TitleListParams) ([]models.TitleView, int64, error)
	UpdateTitle(id uint, req models.UpdateTitleRequest) (*models.TitleView, error)
	DeleteTitle(id uint) error
}

type titleService struct {
	titleRepo    repositories.TitleRepository
	categoryRepo repositories.CategoryRepository
	genreRepo    repositories.GenreRepository
}

func NewTitleService(
	titleRepo repositories.TitleRepository,
	categoryRepo repositories.CategoryRepository,
	genreRepo repositories.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func validateYear(year int) error {
	if year <= 0 || year > time.Now().Year() {
		return models.ErrInvalidYear
	}
	return nil
}

// resolveGenres maps slugs to genre records, failing when any slug is
// unknown.
func (s *titleService) resolveGenres(slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}

	genres, err := s.genreRepo.GetBySlugs(slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, models.ErrNotFound
		}
	}

	return genres, nil
}

func (s *titleService) resolveCategory(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) CreateTitle(req models.CreateTitleRequest) (*models.TitleView, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(req.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Genres:      genres,
	}

	if req.Category != "" {
		category, err := s.resolveCategory(req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Create(title); err != nil {
		return nil, err
	}

	view := title.View(nil)
	return &view, nil
}

func (s *titleService) GetTitle(id uint) (*models.TitleView, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	rating, err := s.titleRepo.Rating(id)
	if err != nil {
		return nil, err
	}

	view := title.View(rating)
	return &view, nil
}

func (s *titleService) GetTitles(params models.TitleListParams) ([]models.TitleView, int64, error) {
	titles, total, err := s.titleRepo.GetList(params)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}

	ratings, err := s.titleRepo.Ratings(ids)
	if err != nil {
		return nil, 0, err
	}

	views := make([]models.TitleView, len(titles))
	for i := range titles {
		var rating *float64
		if avg, ok := ratings[titles[i].ID]; ok {
			r := avg
			rating = &r
		}
		views[i] = titles[i].View(rating)
	}

	return views, total, nil
}

func (s *titleService) UpdateTitle(id uint, req models.UpdateTitleRequest) (*models.TitleView, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.resolveCategory(*req.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	// Resolve genre slugs before touching the row so an unknown slug
	// rejects the whole patch instead of leaving the other fields saved.
	var genres []models.Genre
	if req.Genre != nil {
		genres, err = s.resolveGenres(*req.Genre)
		if err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(title); err != nil {
		return nil, err
	}

	if req.Genre != nil {
		if err := s.titleRepo.ReplaceGenres(title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	return s.GetTitle(id)
}

func (s *titleService) DeleteTitle(id uint) error {
	if _, err := s.titleRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	return s.titleRepo.Delete(id)
}
