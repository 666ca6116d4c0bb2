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

type TitleHandler struct {
	titleService services.TitleService
	Helper       *helper.HTTPHelper
}

func NewTitleHandler(titleService services.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService, Helper: helper.NewHTTPHelper()}
}

func (h *TitleHandler) allowed(c *gin.Context, action permissions.Action) bool {
	decision := permissions.Catalog.Check(middleware.CurrentActor(c), action, nil)
	if !decision.Allowed {
		h.Helper.SendForbiddenError(c, decision.Reason, h.Helper.EmptyJsonMap())
		return false
	}
	return true
}

func (h *TitleHandler) titleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("title_id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid title ID", h.Helper.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}

func (h *TitleHandler) CreateTitle(c *gin.Context) {
	if !h.allowed(c, permissions.ActionCreate) {
		return
	}

	var req models.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	title, err := h.titleService.CreateTitle(req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Title created", title)
}

func (h *TitleHandler) GetTitles(c *gin.Context) {
	var params models.TitleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	titles, total, err := h.titleService.GetTitles(params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"titles":     titles,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *TitleHandler) GetTitle(c *gin.Context) {
	id, ok := h.titleID(c)
	if !ok {
		return
	}

	title, err := h.titleService.GetTitle(id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", title)
}

func (h *TitleHandler) UpdateTitle(c *gin.Context) {
	if !h.allowed(c, permissions.ActionUpdate) {
		return
	}

	id, ok := h.titleID(c)
	if !ok {
		return
	}

	var req models.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	title, err := h.titleService.UpdateTitle(id, req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Title updated", title)
}

func (h *TitleHandler) DeleteTitle(c *gin.Context) {
	if !h.allowed(c, permissions.ActionDelete) {
		return
	}

	id, ok := h.titleID(c)
	if !ok {
		return
	}

	if err := h.titleService.DeleteTitle(id); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}
