package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewhub-api/helper"
	"reviewhub-api/middleware"
	"reviewhub-api/models"
	"reviewhub-api/permissions"
	"reviewhub-api/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
	Helper          *helper.HTTPHelper
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, Helper: helper.NewHTTPHelper()}
}

func (h *CategoryHandler) allowed(c *gin.Context, action permissions.Action) bool {
	decision := permissions.Catalog.Check(middleware.CurrentActor(c), action, nil)
	if !decision.Allowed {
		h.Helper.SendForbiddenError(c, decision.Reason, h.Helper.EmptyJsonMap())
		return false
	}
	return true
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	if !h.allowed(c, permissions.ActionCreate) {
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	category, err := h.categoryService.CreateCategory(req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Category created", category)
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	categories, total, err := h.categoryService.GetCategories(params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"categories": categories,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if !h.allowed(c, permissions.ActionDelete) {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Param("slug")); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}
