package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Models returns every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.StockMovement{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&order.StatusChange{},
	}
}

// AutoMigrate creates or updates the schema for all models.
func (d *Database) AutoMigrate(log *logrus.Logger) error {
	log.Info("Running database migrations")
	if err := d.db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("Database migrations complete")
	return nil
}

// SeedAdmin ensures a staff account exists so the back office is
// reachable after a fresh deploy. It only runs when no staff account
// is present.
func (d *Database) SeedAdmin(cfg *config.Config, log *logrus.Logger) error {
	var count int64
	if err := d.db.Model(&user.User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check staff accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	passwords := auth.NewPasswordManager(cfg.Security.BcryptCost)
	hash, err := passwords.Hash("changeme123")
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	admin := &user.User{
		Email:     "admin@" + cfg.App.Name + ".local",
		Password:  hash,
		FirstName: "Admin",
		IsActive:  true,
		IsStaff:   true,
	}
	if err := d.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.WithField("email", admin.Email).Warn("Seeded default staff account, change its password")
	return nil
}

// SeedDevData loads a small demo catalog in development.
func (d *Database) SeedDevData(log *logrus.Logger) error {
	var count int64
	if err := d.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		categories := []catalog.Category{
			{Name: "Apparel", Slug: "apparel", IsActive: true},
			{Name: "Accessories", Slug: "accessories", IsActive: true},
		}
		for i := range categories {
			if err := tx.Create(&categories[i]).Error; err != nil {
				return err
			}
		}

		products := []catalog.Product{
			{Name: "Basic Tee", Price: decimalFromInt(25), Stock: 100, IsActive: true, CategoryID: &categories[0].ID},
			{Name: "Hooded Sweatshirt", Price: decimalFromInt(60), Stock: 40, IsActive: true, CategoryID: &categories[0].ID},
			{Name: "Canvas Tote", Price: decimalFromInt(18), Stock: 75, IsActive: true, CategoryID: &categories[1].ID},
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}

		log.WithField("products", len(products)).Info("Seeded development catalog")
		return nil
	})
}

func decimalFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
