package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/permissions"
	"github.com/taskdesk/taskdesk-api/internal/repository"
)

const contextKeyCurrentUser = "current_user"

// RequireSuperAdmin loads the authenticated user and rejects anyone outside
// the SuperAdmin group.
func RequireSuperAdmin(users repository.UserRepository, policy *permissions.Policy) gin.HandlerFunc {
	return requireRole(users, policy.IsSuperAdmin, "SuperAdmin only")
}

// RequireAdminOrSuperAdmin loads the authenticated user and rejects anyone
// outside the two privileged groups.
func RequireAdminOrSuperAdmin(users repository.UserRepository, policy *permissions.Policy) gin.HandlerFunc {
	return requireRole(users, policy.IsAdminOrSuperAdmin, "Admin/SuperAdmin only")
}

func requireRole(users repository.UserRepository, allowed func(*models.User) bool, denial string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := users.FindByID(userID, "Profile")
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !allowed(user) {
			apierrors.Forbidden(c, denial)
			c.Abort()
			return
		}

		c.Set(contextKeyCurrentUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the user loaded by a role middleware
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(contextKeyCurrentUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
