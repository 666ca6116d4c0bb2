package services

import (
	"errors"

	"reviewhub-api/models"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(titleID uint, author *models.User, req models.CreateReviewRequest) (*models.Review, error)
	GetReview(titleID, id uint) (*models.Review, error)
	GetReviews(titleID uint, params models.ListParams) ([]models.Review, int64, error)
	UpdateReview(titleID, id uint, req models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(titleID, id uint) error
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	titleRepo  repositories.TitleRepository
}

func NewReviewService(reviewRepo repositories.ReviewRepository, titleRepo repositories.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func validateScore(score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return models.ErrInvalidScore
	}
	return nil
}

func (s *reviewService) checkTitle(titleID uint) error {
	if _, err := s.titleRepo.GetByID(titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	return nil
}

// CreateReview stamps the author from the acting user; any author in the
// payload is never consulted.
func (s *reviewService) CreateReview(titleID uint, author *models.User, req models.CreateReviewRequest) (*models.Review, error) {
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}
	if err := s.checkTitle(titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Author:   author,
		Text:     req.Text,
		Score:    req.Score,
	}

	if err := s.reviewRepo.Create(review); err != nil {
		// The unique (author, title) index backstops the existence check
		// under concurrent inserts.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrDuplicateReview
		}
		return nil, err
	}

	return review, nil
}

func (s *reviewService) GetReview(titleID, id uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByTitleAndID(titleID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReviews(titleID uint, params models.ListParams) ([]models.Review, int64, error) {
	if err := s.checkTitle(titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.GetListByTitle(titleID, params)
}

func (s *reviewService) UpdateReview(titleID, id uint, req models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.GetReview(titleID, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) DeleteReview(titleID, id uint) error {
	if _, err := s.GetReview(titleID, id); err != nil {
		return err
	}
	return s.reviewRepo.Delete(id)
}
