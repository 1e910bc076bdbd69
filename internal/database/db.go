package database

import (
	"fmt"
	"log"

	"backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Order{},
		&model.OrderCategory{},
		&model.BalanceEntry{},
		&model.OrderArchive{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// defaultCategories seeds the category list the order form offers out of the box.
var defaultCategories = []string{"Office Supplies", "Drinks", "Sports", "Tech", "Other"}

// Seed creates the default order categories and, when adminPassword is set,
// the initial admin account. It is idempotent: existing rows are left alone.
func Seed(db *gorm.DB, adminPassword string) error {
	var count int64
	if err := db.Model(&model.OrderCategory{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count == 0 {
		for _, name := range defaultCategories {
			if err := db.Create(&model.OrderCategory{Name: name, Description: "Default category"}).Error; err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
		}
	}

	if adminPassword == "" {
		return nil
	}

	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := model.User{Username: "admin", Password: string(hashed), Role: model.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.Println("Seeded default admin user")

	return nil
}
