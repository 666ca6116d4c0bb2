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

type CommentHandler struct {
	commentService services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: helper.NewHTTPHelper()}
}

func (h *CommentHandler) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid "+name, h.Helper.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}

func (h *CommentHandler) pathChain(c *gin.Context) (titleID, reviewID uint, ok bool) {
	titleID, ok = h.pathID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok = h.pathID(c, "review_id")
	return
}

func (h *CommentHandler) deny(c *gin.Context, decision permissions.Decision) {
	h.Helper.SendForbiddenError(c, decision.Reason, h.Helper.EmptyJsonMap())
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if d := permissions.UserContent.Check(actor, permissions.ActionCreate, nil); !d.Allowed {
		h.deny(c, d)
		return
	}

	titleID, reviewID, ok := h.pathChain(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.commentService.CreateComment(titleID, reviewID, middleware.CurrentUser(c), req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Comment created", comment.View())
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	titleID, reviewID, ok := h.pathChain(c)
	if !ok {
		return
	}

	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	comments, total, err := h.commentService.GetComments(titleID, reviewID, params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	views := make([]models.CommentView, len(comments))
	for i := range comments {
		views[i] = comments[i].View()
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"comments":   views,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	titleID, reviewID, ok := h.pathChain(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(titleID, reviewID, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", comment.View())
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	titleID, reviewID, ok := h.pathChain(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(titleID, reviewID, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	target := &permissions.Target{AuthorID: comment.AuthorID}
	if d := permissions.UserContent.Check(actor, permissions.ActionUpdate, target); !d.Allowed {
		h.deny(c, d)
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	updated, err := h.commentService.UpdateComment(titleID, reviewID, id, req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment updated", updated.View())
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	titleID, reviewID, ok := h.pathChain(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(titleID, reviewID, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	target := &permissions.Target{AuthorID: comment.AuthorID}
	if d := permissions.UserContent.Check(actor, permissions.ActionDelete, target); !d.Allowed {
		h.deny(c, d)
		return
	}

	if err := h.commentService.DeleteComment(titleID, reviewID, id); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}
