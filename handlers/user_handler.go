package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewhub-api/helper"
	"reviewhub-api/middleware"
	"reviewhub-api/models"
	"reviewhub-api/permissions"
	"reviewhub-api/services"
)

// UserHandler is the administrative surface over the user collection.
// Self access lives on /users/me, handled by AuthHandler.
type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService, Helper: helper.NewHTTPHelper()}
}

func (h *UserHandler) allowed(c *gin.Context, action permissions.Action) bool {
	decision := permissions.Users.Check(middleware.CurrentActor(c), action, nil)
	if !decision.Allowed {
		h.Helper.SendForbiddenError(c, decision.Reason, h.Helper.EmptyJsonMap())
		return false
	}
	return true
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	if !h.allowed(c, permissions.ActionCreate) {
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "User created", user)
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	if !h.allowed(c, permissions.ActionRead) {
		return
	}

	var params models.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	users, total, err := h.userService.GetUsers(params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"users":      users,
		"pagination": h.Helper.GeneratePaging(c, params.Limit, params.Page, total),
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	if !h.allowed(c, permissions.ActionRead) {
		return
	}

	user, err := h.userService.GetUser(c.Param("username"))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	if !h.allowed(c, permissions.ActionUpdate) {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.UpdateUser(c.Param("username"), req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User updated", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	if !h.allowed(c, permissions.ActionDelete) {
		return
	}

	if err := h.userService.DeleteUser(c.Param("username")); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}
