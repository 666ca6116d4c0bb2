package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewhub-api/helper"
	"reviewhub-api/middleware"
	"reviewhub-api/models"
	"reviewhub-api/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		Helper:      helper.NewHTTPHelper(),
	}
}

// Signup registers (or re-registers) a user and emails a confirmation
// code. The response echoes username and email only; the code travels by
// mail alone.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if !h.Helper.ValidateStruct(c, req) {
		return
	}

	response, err := h.authService.Signup(req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Confirmation code sent", response)
}

// GetToken exchanges a confirmation code for an access token.
func (h *AuthHandler) GetToken(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if !h.Helper.ValidateStruct(c, req) {
		return
	}

	response, err := h.authService.GetToken(req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Token issued", response)
}

// GetMe returns the authenticated user's own record.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.Helper.SendUnauthorizedError(c, "authentication required", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}

// UpdateMe updates the authenticated user's own record. The role field is
// not client-controlled on this path.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.Helper.SendUnauthorizedError(c, "authentication required", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	updated, err := h.userService.UpdateMe(user.ID, req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile updated", updated)
}
