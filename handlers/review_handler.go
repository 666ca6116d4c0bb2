package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub-api/helper"
	"reviewhub-api/middleware"
	"reviewhub-api/models"
	"reviewhub-api/permissions"
	"reviewhub-api/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	Helper        *helper.HTTPHelper
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, Helper: helper.NewHTTPHelper()}
}

func (h *ReviewHandler) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid "+name, h.Helper.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}

func (h *ReviewHandler) deny(c *gin.Context, decision permissions.Decision) {
	h.Helper.SendForbiddenError(c, decision.Reason, h.Helper.EmptyJsonMap())
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if d := permissions.UserContent.Check(actor, permissions.ActionCreate, nil); !d.Allowed {
		h.deny(c, d)
		return
	}

	titleID, ok := h.pathID(c, "title_id")
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	review, err := h.reviewService.CreateReview(titleID, middleware.CurrentUser(c), req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Review created", review.View())
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	titleID, ok := h.pathID(c, "title_id")
	if !ok {
		return
	}

	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	reviews, total, err := h.reviewService.GetReviews(titleID, params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	views := make([]models.ReviewView, len(reviews))
	for i := range reviews {
		views[i] = reviews[i].View()
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"reviews":    views,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	titleID, ok := h.pathID(c, "title_id")
	if !ok {
		return
	}
	id, ok := h.pathID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(titleID, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", review.View())
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	titleID, ok := h.pathID(c, "title_id")
	if !ok {
		return
	}
	id, ok := h.pathID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(titleID, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	target := &permissions.Target{AuthorID: review.AuthorID}
	if d := permissions.UserContent.Check(actor, permissions.ActionUpdate, target); !d.Allowed {
		h.deny(c, d)
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	updated, err := h.reviewService.UpdateReview(titleID, id, req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Review updated", updated.View())
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	titleID, ok := h.pathID(c, "title_id")
	if !ok {
		return
	}
	id, ok := h.pathID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(titleID, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	target := &permissions.Target{AuthorID: review.AuthorID}
	if d := permissions.UserContent.Check(actor, permissions.ActionDelete, target); !d.Allowed {
		h.deny(c, d)
		return
	}

	if err := h.reviewService.DeleteReview(titleID, id); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}
