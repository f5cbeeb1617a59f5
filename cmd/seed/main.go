package main

import (
	"errors"
	"log"

	"github.com/taskdesk/taskdesk-api/internal/config"
	"github.com/taskdesk/taskdesk-api/internal/database"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"github.com/taskdesk/taskdesk-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "pass123"

// Seeds a superadmin, one admin with two delegated users, and a sample task.
// Idempotent: existing accounts are updated in place.
func main() {
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupSync := services.NewGroupSyncService(groupRepo)

	if err := groupSync.EnsureRoleGroups(); err != nil {
		log.Fatalf("Failed to bootstrap role groups: %v", err)
	}

	ensureAccount(userRepo, profileRepo, groupSync, "superadmin", models.RoleSuperAdmin, nil)
	admin := ensureAccount(userRepo, profileRepo, groupSync, "admin1", models.RoleAdmin, nil)

	user1 := ensureAccount(userRepo, profileRepo, groupSync, "user1", models.RoleUser, &admin.ID)
	ensureAccount(userRepo, profileRepo, groupSync, "user2", models.RoleUser, &admin.ID)

	var task models.Task
	err := db.Where(models.Task{Title: "Sample Task", AssignedToID: user1.ID}).
		Attrs(models.Task{
			Description: "Complete assigned feature",
			Status:      models.TaskStatusPending,
		}).
		FirstOrCreate(&task).Error
	if err != nil {
		log.Fatalf("Failed to seed task: %v", err)
	}

	log.Println("Seed data created:")
	log.Println("  superadmin / " + seedPassword)
	log.Println("  admin1 / " + seedPassword)
	log.Println("  user1 / " + seedPassword)
	log.Println("  user2 / " + seedPassword)
}

func ensureAccount(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	groupSync *services.GroupSyncService,
	username string,
	role models.Role,
	adminID *uint64,
) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user, err := users.FindByUsername(username)
	switch {
	case err == nil:
		user.PasswordHash = string(hash)
		if err := users.Update(user); err != nil {
			log.Fatalf("Failed to update %s: %v", username, err)
		}
		if _, err := profiles.EnsureForUser(user.ID); err != nil {
			log.Fatalf("Failed to ensure profile for %s: %v", username, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			Username:     username,
			PasswordHash: string(hash),
		}
		if err := users.CreateWithProfile(user, models.RoleUser); err != nil {
			log.Fatalf("Failed to create %s: %v", username, err)
		}
	default:
		log.Fatalf("Failed to look up %s: %v", username, err)
	}

	if _, err := profiles.UpdateRole(user.ID, role); err != nil {
		log.Fatalf("Failed to set role for %s: %v", username, err)
	}
	if err := groupSync.SyncUserRole(user.ID, role); err != nil {
		log.Fatalf("Failed to sync groups for %s: %v", username, err)
	}
	if adminID != nil {
		if _, err := profiles.AssignAdmin(user.ID, adminID); err != nil {
			log.Fatalf("Failed to assign admin for %s: %v", username, err)
		}
	}

	return user
}
