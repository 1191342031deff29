// database.go - Handles database connection and setup

package database // Declares the package name

import ( // Import required packages
	"lusionbeatz-backend/config" // Project config
	"lusionbeatz-backend/models" // Marketplace models

	"go.uber.org/zap"            // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/sqlite"      // SQLite driver for GORM
	"gorm.io/gorm"               // GORM ORM
	"gorm.io/gorm/logger"        // Silences GORM's own logger
)

var DB *gorm.DB // Global variable to hold the database connection (pointer to gorm.DB)

func Connect(dbPath string) error { // Connect opens the database and runs migrations
	var err error
	// Foreign keys are off by default in SQLite; cart rows cascade with their sample
	DB, err = gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true, // Unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil { // If error, return it
		return err
	}

	// Auto-migrate the marketplace models (create tables if needed)
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Sample{},
		&models.CartItem{},
		&models.Order{},
	); err != nil {
		return err
	}

	// Create default admin user if configured
	return createDefaultAdmin()
}

// Close releases the underlying connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// createDefaultAdmin - Creates a default admin user if configured and none exists
// This uses environment variables for security instead of hardcoded credentials
func createDefaultAdmin() error {
	cfg := config.Load() // Load configuration

	// Only create admin if explicitly configured
	if !cfg.CreateAdmin || cfg.AdminPassword == "" {
		return nil
	}

	// Check if any admin user exists
	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Admin",
		Email:    cfg.AdminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
		Verified: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	zap.L().Info("default admin created", zap.String("email", admin.Email))
	return nil
}
