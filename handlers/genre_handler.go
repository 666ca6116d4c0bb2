package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewhub-api/helper"
	"reviewhub-api/middleware"
	"reviewhub-api/models"
	"reviewhub-api/permissions"
	"reviewhub-api/services"
)

type GenreHandler struct {
	genreService services.GenreService
	Helper       *helper.HTTPHelper
}

func NewGenreHandler(genreService services.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService, Helper: helper.NewHTTPHelper()}
}

func (h *GenreHandler) allowed(c *gin.Context, action permissions.Action) bool {
	decision := permissions.Catalog.Check(middleware.CurrentActor(c), action, nil)
	if !decision.Allowed {
		h.Helper.SendForbiddenError(c, decision.Reason, h.Helper.EmptyJsonMap())
		return false
	}
	return true
}

func (h *GenreHandler) CreateGenre(c *gin.Context) {
	if !h.allowed(c, permissions.ActionCreate) {
		return
	}

	var req models.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	genre, err := h.genreService.CreateGenre(req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Genre created", genre)
}

func (h *GenreHandler) GetGenres(c *gin.Context) {
	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	genres, total, err := h.genreService.GetGenres(params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"genres":     genres,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	if !h.allowed(c, permissions.ActionDelete) {
		return
	}

	if err := h.genreService.DeleteGenre(c.Param("slug")); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}
