package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/permissions"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AccountService handles authentication and the SuperAdmin-managed account
// roster.
type AccountService struct {
	users     repository.UserRepository
	groupSync *GroupSyncService
	policy    *permissions.Policy
}

// NewAccountService creates a new AccountService
func NewAccountService(users repository.UserRepository, groupSync *GroupSyncService, policy *permissions.Policy) *AccountService {
	return &AccountService{
		users:     users,
		groupSync: groupSync,
		policy:    policy,
	}
}

// Login verifies credentials and returns the authenticated user.
func (s *AccountService) Login(username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID with their profile.
func (s *AccountService) GetUser(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id, "Profile")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// CreateAccountInput represents the information needed to create an account.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     models.Role
}

// CreateAccount creates a user with a profile holding the requested role and
// places the account in the matching role group.
func (s *AccountService) CreateAccount(actor *models.User, input CreateAccountInput) (*models.User, error) {
	if !s.policy.CanManageAccounts(actor) {
		return nil, apierrors.NewAuthorizationError("Only a SuperAdmin can create accounts")
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apierrors.NewValidationError("username", "Username is required.")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apierrors.NewValidationError("password",
			fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}

	if _, err := s.users.FindByUsername(username); err == nil {
		return nil, apierrors.NewValidationError("username", "Username already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hashedPassword),
	}

	if err := s.users.CreateWithProfile(user, input.Role); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Projection sync runs after the account write is durable; a failure here
	// is logged and healed on the next role change, never surfaced to the
	// caller as a failed create.
	if err := s.groupSync.SyncUserRole(user.ID, user.Profile.Role); err != nil {
		log.Printf("group sync failed for user %d: %v", user.ID, err)
	}

	return user, nil
}

// DeleteAccount removes an account and everything hanging off it.
func (s *AccountService) DeleteAccount(actor *models.User, targetID uint64) error {
	if !s.policy.CanManageAccounts(actor) {
		return apierrors.NewAuthorizationError("Only a SuperAdmin can delete accounts")
	}

	if actor.ID == targetID {
		return apierrors.NewAuthorizationError("You cannot delete your own account")
	}

	if _, err := s.users.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewNotFoundError("user")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.users.Delete(targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ListAccounts returns the full roster with profiles. SuperAdmin only.
func (s *AccountService) ListAccounts(actor *models.User) ([]models.User, error) {
	if !s.policy.CanManageAccounts(actor) {
		return nil, apierrors.NewAuthorizationError("Only a SuperAdmin can list accounts")
	}

	users, err := s.users.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ListAccountsByRole returns accounts holding the given role. SuperAdmin only;
// used to populate the admin/user pickers of the assignment screen.
func (s *AccountService) ListAccountsByRole(actor *models.User, role models.Role) ([]models.User, error) {
	if !s.policy.CanManageAccounts(actor) {
		return nil, apierrors.NewAuthorizationError("Only a SuperAdmin can list accounts")
	}

	users, err := s.users.ListByRole(role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}

	return users, nil
}
