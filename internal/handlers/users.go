package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/dto"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/services"
)

// UserHandler exposes the SuperAdmin account management panel: roster,
// account creation with a role, deletion, role changes and admin assignment.
type UserHandler struct {
	accounts *services.AccountService
	profiles *services.ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts *services.AccountService, profiles *services.ProfileService) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		profiles: profiles,
	}
}

// ListUsers returns the account roster with profiles. An optional role query
// narrows the list (used by the assignment screen pickers).
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var (
		users []models.User
		err   error
	)

	if roleStr := c.Query("role"); roleStr != "" {
		role, ok := models.ParseRole(roleStr)
		if !ok {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		users, err = h.accounts.ListAccountsByRole(actor, role)
	} else {
		users, err = h.accounts.ListAccounts(actor)
	}

	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToAccountDTOs(users)})
}

// CreateUser creates an account with the requested role.
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateUserRequest struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		apierrors.BadRequest(c, "Invalid role")
		return
	}

	user, err := h.accounts.CreateAccount(actor, services.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountDTO(*user))
}

// DeleteUser removes an account. Deleting your own account is rejected.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.accounts.DeleteAccount(actor, targetID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ChangeRole updates an account's role. The role change clears any stale
// admin assignment and re-syncs the role groups.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		apierrors.BadRequest(c, "Invalid role")
		return
	}

	profile, err := h.profiles.SetRole(actor, targetID, role)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":           profile.UserID,
		"role":              profile.Role,
		"assigned_admin_id": profile.AssignedAdminID,
	})
}

// AssignAdmin sets or clears the delegated admin of a USER account.
func (h *UserHandler) AssignAdmin(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type AssignAdminRequest struct {
		AdminID *uint64 `json:"admin_id"`
	}

	var req AssignAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profiles.SetAssignedAdmin(actor, targetID, req.AdminID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":           profile.UserID,
		"role":              profile.Role,
		"assigned_admin_id": profile.AssignedAdminID,
	})
}
