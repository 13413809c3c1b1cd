// Seeds the admin account and the service categories. Safe to run more
// than once.
package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/sabridemirel/arayanibul-sub001/internal/config"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
)

var defaultCategories = []models.Category{
	{Name: "Cleaning", Slug: "cleaning", Icon: "broom"},
	{Name: "Moving", Slug: "moving", Icon: "truck"},
	{Name: "Repairs", Slug: "repairs", Icon: "wrench"},
	{Name: "Plumbing", Slug: "plumbing", Icon: "pipe"},
	{Name: "Electrical", Slug: "electrical", Icon: "bolt"},
	{Name: "Painting", Slug: "painting", Icon: "roller"},
	{Name: "Tutoring", Slug: "tutoring", Icon: "book"},
	{Name: "Gardening", Slug: "gardening", Icon: "leaf"},
	{Name: "Pet Care", Slug: "pet-care", Icon: "paw"},
	{Name: "Other", Slug: "other", Icon: "dots"},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if repositories.CacheService != nil {
			_ = repositories.CacheService.Close()
		}
	}()

	seedCategories()
	seedAdmin()
}

func seedCategories() {
	categoryRepo := repositories.NewCategoryRepository(repositories.DB)
	for i := range defaultCategories {
		c := defaultCategories[i]
		c.Active = true
		if err := categoryRepo.Upsert(context.Background(), &c); err != nil {
			log.Fatalf("Failed to seed category %s: %v", c.Slug, err)
		}
	}
	log.Printf("✅ Seeded %d categories", len(defaultCategories))
}

func seedAdmin() {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Name:         "Admin",
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Phone:        adminPhone,
		Role:         "admin",
		Status:       "active",
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
}
