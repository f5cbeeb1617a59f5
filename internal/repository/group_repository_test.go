package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var roleGroups = []string{"SuperAdmin", "Admin", "User"}

// GroupRepositoryTestSuite defines the test suite for GormGroupRepository
type GroupRepositoryTestSuite struct {
	suite.Suite
	db     *gorm.DB
	groups GroupRepository
	user   *models.User
}

// SetupTest runs before each test
func (suite *GroupRepositoryTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.GroupMembership{},
	)
	suite.Require().NoError(err)

	suite.groups = NewGroupRepository(suite.db)

	suite.user = &models.User{Username: "member", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

// TearDownTest runs after each test
func (suite *GroupRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *GroupRepositoryTestSuite) TestEnsureGroupsIdempotent() {
	suite.Require().NoError(suite.groups.EnsureGroups(roleGroups))
	suite.Require().NoError(suite.groups.EnsureGroups(roleGroups))

	var count int64
	suite.db.Model(&models.Group{}).Count(&count)
	assert.Equal(suite.T(), int64(3), count)
}

func (suite *GroupRepositoryTestSuite) TestReplaceMembershipExactlyOne() {
	suite.Require().NoError(suite.groups.EnsureGroups(roleGroups))

	for _, desired := range []string{"User", "Admin", "Admin", "SuperAdmin"} {
		suite.Require().NoError(suite.groups.ReplaceMembership(suite.user.ID, desired, roleGroups))

		names, err := suite.groups.ListGroupNames(suite.user.ID)
		suite.Require().NoError(err)
		assert.Equal(suite.T(), []string{desired}, names)
	}
}

func (suite *GroupRepositoryTestSuite) TestReplaceMembershipCreatesMissingGroup() {
	// No bootstrap: the desired group does not exist yet
	err := suite.groups.ReplaceMembership(suite.user.ID, "Admin", roleGroups)
	suite.Require().NoError(err)

	member, err := suite.groups.IsMember(suite.user.ID, "Admin")
	suite.Require().NoError(err)
	assert.True(suite.T(), member)
}

func (suite *GroupRepositoryTestSuite) TestIsMemberUnknownGroup() {
	member, err := suite.groups.IsMember(suite.user.ID, "Nonexistent")
	suite.Require().NoError(err)
	assert.False(suite.T(), member)
}

func TestGroupRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GroupRepositoryTestSuite))
}
