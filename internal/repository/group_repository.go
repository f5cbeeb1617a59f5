package repository

import (
	stderrors "errors"

	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// FindOrCreateByName returns the named group, creating it when missing
func (r *GormGroupRepository) FindOrCreateByName(name string) (*models.Group, error) {
	var group models.Group
	err := r.db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// EnsureGroups creates any of the named groups that do not exist yet
func (r *GormGroupRepository) EnsureGroups(names []string) error {
	for _, name := range names {
		if _, err := r.FindOrCreateByName(name); err != nil {
			return err
		}
	}
	return nil
}

// IsMember reports whether the user belongs to the named group
func (r *GormGroupRepository) IsMember(userID uint64, groupName string) (bool, error) {
	var membership models.GroupMembership
	err := r.db.
		Joins("JOIN groups ON groups.id = group_memberships.group_id").
		Where("group_memberships.user_id = ? AND groups.name = ?", userID, groupName).
		First(&membership).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReplaceMembership removes the user from every listed role group and adds
// them to the desired one. Running it again for the same role is a no-op in
// effect.
func (r *GormGroupRepository) ReplaceMembership(userID uint64, desired string, roleGroups []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var desiredGroup models.Group
		err := tx.Where(models.Group{Name: desired}).FirstOrCreate(&desiredGroup).Error
		if err != nil {
			return err
		}

		var groupIDs []uint64
		err = tx.Model(&models.Group{}).
			Where("name IN ?", roleGroups).
			Pluck("id", &groupIDs).Error
		if err != nil {
			return err
		}

		if len(groupIDs) > 0 {
			err = tx.Where("user_id = ? AND group_id IN ?", userID, groupIDs).
				Delete(&models.GroupMembership{}).Error
			if err != nil {
				return err
			}
		}

		membership := models.GroupMembership{
			GroupID: desiredGroup.ID,
			UserID:  userID,
		}
		return tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&membership).Error
	})
}

// ListGroupNames returns the names of all groups the user belongs to
func (r *GormGroupRepository) ListGroupNames(userID uint64) ([]string, error) {
	var names []string
	err := r.db.Model(&models.GroupMembership{}).
		Joins("JOIN groups ON groups.id = group_memberships.group_id").
		Where("group_memberships.user_id = ?", userID).
		Pluck("groups.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
