package server

import (
	"errors"
	"fmt"

	"go-erp-sync/internal/model"
	"go-erp-sync/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates the backend tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{},
		&model.Document{}, &model.RemoteSale{}, &model.Backup{},
	)
}

// Seed creates default privileges, roles and the admin user if they don't exist.
func Seed(db *gorm.DB, adminEmail, adminPassword string, logger *zap.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		return err
	}

	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err != nil {
		return err
	}
	if len(masterRole.Privileges) == 0 {
		if err := roleRepo.AssignPrivileges(masterRole, allPrivileges); err != nil {
			return err
		}
		logger.Info("MASTER_ADMIN role assigned all privileges")
	}

	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return err
	}
	if len(adminRole.Privileges) == 0 {
		limited := make([]model.Privilege, 0, len(allPrivileges))
		for _, p := range allPrivileges {
			if p.Code != model.PrivBackupCreate {
				limited = append(limited, p)
			}
		}
		if err := roleRepo.AssignPrivileges(adminRole, limited); err != nil {
			return err
		}
		logger.Info("ADMIN role assigned limited privileges")
	}

	_, err = userRepo.FindByEmail(adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Master Administrator",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	if err := admin.SetPassword(adminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	logger.Info("admin user created", zap.String("email", adminEmail), zap.String("role", model.RoleMasterAdmin))
	return nil
}
