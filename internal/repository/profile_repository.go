package repository

import (
	stderrors "errors"

	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// EnsureForUser returns the user's profile, creating a default one when
// missing. Calling it twice for the same account yields the same profile.
func (r *GormProfileRepository) EnsureForUser(userID uint64) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.
		Where(models.Profile{UserID: userID}).
		Attrs(models.Profile{Role: models.RoleUser}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID finds a profile by the owning user's ID
func (r *GormProfileRepository) FindByUserID(userID uint64) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateRole sets the role and clears any assigned admin when the new role is
// not USER. The invariants are re-validated inside the transaction, so no
// partially-invalid profile is ever committed.
func (r *GormProfileRepository) UpdateRole(userID uint64, role models.Role) (*models.Profile, error) {
	var profile models.Profile

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return apierrors.NewNotFoundError("profile")
			}
			return err
		}

		profile.Role = role
		if role != models.RoleUser {
			profile.AssignedAdminID = nil
		}

		if err := validateAssignment(tx, &profile); err != nil {
			return err
		}

		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		// An account moving off the ADMIN role releases its delegated users,
		// otherwise their profiles would reference a non-admin.
		if role != models.RoleAdmin {
			err := tx.Model(&models.Profile{}).
				Where("assigned_admin_id = ?", profile.UserID).
				Update("assigned_admin_id", nil).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// AssignAdmin sets or clears the delegated admin for a USER profile
func (r *GormProfileRepository) AssignAdmin(userID uint64, adminID *uint64) (*models.Profile, error) {
	var profile models.Profile

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return apierrors.NewNotFoundError("profile")
			}
			return err
		}

		profile.AssignedAdminID = adminID

		if err := validateAssignment(tx, &profile); err != nil {
			return err
		}

		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// validateAssignment enforces the assignment invariants: only USER profiles
// may carry an assigned admin, and the referenced account's profile must hold
// the ADMIN role. The admin lookup runs inside the caller's transaction to
// avoid racing a concurrent role change on the referenced admin.
func validateAssignment(tx *gorm.DB, profile *models.Profile) error {
	if profile.AssignedAdminID == nil {
		return nil
	}

	if profile.Role != models.RoleUser {
		return apierrors.NewValidationError(
			"assigned_admin", "Only USER profiles can be assigned to an Admin.")
	}

	var adminProfile models.Profile
	err := tx.Where("user_id = ?", *profile.AssignedAdminID).First(&adminProfile).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewValidationError(
				"assigned_admin", "assigned_admin must be a user with ADMIN role.")
		}
		return err
	}

	if adminProfile.Role != models.RoleAdmin {
		return apierrors.NewValidationError(
			"assigned_admin", "assigned_admin must be a user with ADMIN role.")
	}

	return nil
}
