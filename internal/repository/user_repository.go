package repository

import (
	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithProfile creates a user and their profile in one transaction, so a
// user row is never observable without its profile.
func (r *GormUserRepository) CreateWithProfile(user *models.User, role models.Role) error {
	if role == "" {
		role = models.RoleUser
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := &models.Profile{
			UserID: user.ID,
			Role:   role,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		user.Profile = profile
		return nil
	})
}

// FindByID finds a user by ID with optional preloading
func (r *GormUserRepository) FindByID(id uint64, preload ...string) (*models.User, error) {
	var user models.User
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users with their profiles, ordered by username
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.
		Preload("Profile").
		Preload("Profile.AssignedAdmin").
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListByRole retrieves users whose profile has the given role
func (r *GormUserRepository) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.role = ?", role).
		Preload("Profile").
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete hard deletes a user and everything hanging off the account
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assigned_to_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		// Users delegated to a deleted admin lose the assignment, not the account
		if err := tx.Model(&models.Profile{}).
			Where("assigned_admin_id = ?", id).
			Update("assigned_admin_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
