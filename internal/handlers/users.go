package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/auth"
	"github.com/roomkeep/dataroom/internal/services"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates the handler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all users. Admin-only.
func (h *UserHandler) List(c *gin.Context) {
	userID, _ := auth.UserID(c)
	users, err := h.users.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
}

// Create provisions a user with the fixed default password and sends
// the welcome mail. Admin-only.
func (h *UserHandler) Create(c *gin.Context) {
	userID, _ := auth.UserID(c)
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := h.users.Create(c.Request.Context(), userID, req.Email, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "full_name": user.FullName})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive toggles a user's activation flag. Admin-only.
func (h *UserHandler) SetActive(c *gin.Context) {
	userID, _ := auth.UserID(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := h.users.SetActive(c.Request.Context(), userID, uint(targetID), *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
