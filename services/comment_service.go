package services

import (
	"errors"

	"reviewhub-api/models"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(titleID, reviewID uint, author *models.User, req models.CreateCommentRequest) (*models.Comment, error)
	GetComment(titleID, reviewID, id uint) (*models.Comment, error)
	GetComments(titleID, reviewID uint, params models.ListParams) ([]models.Comment, int64, error)
	UpdateComment(titleID, reviewID, id uint, req models.UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(titleID, reviewID, id uint) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	reviewRepo  repositories.ReviewRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, reviewRepo repositories.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

// checkReview resolves the parent chain: the review must exist and belong
// to the title named in the path.
func (s *commentService) checkReview(titleID, reviewID uint) error {
	if _, err := s.reviewRepo.GetByTitleAndID(titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) CreateComment(titleID, reviewID uint, author *models.User, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := s.checkReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Author:   author,
		Text:     req.Text,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *commentService) GetComment(titleID, reviewID, id uint) (*models.Comment, error) {
	if err := s.checkReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByReviewAndID(reviewID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) GetComments(titleID, reviewID uint, params models.ListParams) ([]models.Comment, int64, error) {
	if err := s.checkReview(titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.GetListByReview(reviewID, params)
}

func (s *commentService) UpdateComment(titleID, reviewID, id uint, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.GetComment(titleID, reviewID, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *commentService) DeleteComment(titleID, reviewID, id uint) error {
	if _, err := s.GetComment(titleID, reviewID, id); err != nil {
		return err
	}
	return s.commentRepo.Delete(id)
}
