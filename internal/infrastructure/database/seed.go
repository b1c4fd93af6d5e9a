package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/cleanops-api/internal/config"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Permission names granted through platform roles
var defaultPermissions = []string{
	"view-dashboard",
	"manage-clients",
	"manage-leads",
	"manage-estimates",
	"manage-jobs",
	"manage-invoices",
	"manage-payments",
	"manage-team",
	"manage-tenants",
}

// tenant-level work is gated by membership, so registrants get everything
// except the platform console
var userPermissions = []string{
	"view-dashboard",
	"manage-clients",
	"manage-leads",
	"manage-estimates",
	"manage-jobs",
	"manage-invoices",
	"manage-payments",
	"manage-team",
}

// SeedDefaultData seeds roles, permissions, service types and the platform admin
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	zap.L().Info("seeding default data")

	perms := make(map[string]entity.Permission, len(defaultPermissions))
	for _, name := range defaultPermissions {
		p := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
		perms[name] = p
	}

	if err := seedRole(db, entity.RoleSuperAdmin, perms, defaultPermissions); err != nil {
		return err
	}
	if err := seedRole(db, entity.RoleUser, perms, userPermissions); err != nil {
		return err
	}

	for _, st := range entity.DefaultServiceTypes() {
		st := st
		if err := db.Where(entity.ServiceType{Slug: st.Slug}).FirstOrCreate(&st).Error; err != nil {
			return fmt.Errorf("seed service type %s: %w", st.Slug, err)
		}
	}

	if err := seedAdmin(db, admin); err != nil {
		return err
	}

	zap.L().Info("default data seeding completed")
	return nil
}

func seedRole(db *gorm.DB, name string, perms map[string]entity.Permission, grant []string) error {
	role := entity.Role{Name: name, GuardName: "web"}
	if err := db.Where(entity.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
		return fmt.Errorf("seed role %s: %w", name, err)
	}

	granted := make([]entity.Permission, 0, len(grant))
	for _, g := range grant {
		granted = append(granted, perms[g])
	}
	if err := db.Model(&role).Association("Permissions").Replace(granted); err != nil {
		return fmt.Errorf("grant permissions to %s: %w", name, err)
	}
	return nil
}

func seedAdmin(db *gorm.DB, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		zap.L().Info("admin credentials not configured, skipping super admin")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	var existing entity.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		zap.L().Info("super admin already exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup super admin: %w", err)
	}

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var role entity.Role
	if err := db.Where("name = ?", entity.RoleSuperAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("load super-admin role: %w", err)
	}

	first, last, _ := strings.Cut(strings.TrimSpace(admin.Name), " ")
	if first == "" {
		first = "Platform"
	}
	user := entity.User{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  hashed,
		Provider:  "local",
		Roles:     []entity.Role{role},
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	zap.L().Info("super admin created", zap.String("email", email))
	return nil
}
