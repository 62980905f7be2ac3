package db

import (
	"log"
	"os"

	"inkwell/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable"
	}

	var err error
	// TranslateError lets the vote path detect duplicate-key conflicts as
	// gorm.ErrDuplicatedKey regardless of driver.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCategories()
}

// Migrate is split out so tests can run it against their own connection.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.Rating{},
	)
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Title: "Technology", Slug: "technology"},
		{Title: "Life", Slug: "life"},
		{Title: "Travel", Slug: "travel"},
		{Title: "Notes", Slug: "notes"},
	}

	for i := range categories {
		if err := DB.Create(&categories[i]).Error; err != nil {
			log.Printf("Failed to create category %s: %v", categories[i].Title, err)
		}
	}
	log.Println("Initial categories created successfully")
}
