package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/tcdw/cms/internal/auth"
	"github.com/tcdw/cms/internal/config"
	"github.com/tcdw/cms/internal/db"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/repository"
)

// Seed data for a fresh installation: one admin, a couple of categories and a
// published welcome post. Existing rows are left alone so the script is safe
// to re-run.
func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	categories := repository.NewCategoryRepository(gormDB)
	posts := repository.NewPostRepository(gormDB)

	admin, err := users.FindByUsername(ctx, "admin")
	if err != nil {
		hash, err := auth.HashPassword("admin123")
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin = &model.User{
			Username:     "admin",
			Email:        "admin@example.com",
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Println("Created admin user (username: admin, password: admin123)")
	} else {
		log.Println("Admin user already exists, skipping")
	}

	seedCategories := []model.Category{
		{Name: "General", Slug: "general", Description: "Everything that fits nowhere else"},
		{Name: "Announcements", Slug: "announcements", Description: "Site news and updates"},
	}
	var general *model.Category
	for i := range seedCategories {
		existing, err := categories.FindBySlug(ctx, seedCategories[i].Slug)
		if err == nil {
			log.Printf("Category %q already exists, skipping", existing.Name)
			if existing.Slug == "general" {
				general = existing
			}
			continue
		}
		if err := categories.Create(ctx, &seedCategories[i]); err != nil {
			log.Fatalf("Failed to create category %q: %v", seedCategories[i].Name, err)
		}
		log.Printf("Created category %q", seedCategories[i].Name)
		if seedCategories[i].Slug == "general" {
			general = &seedCategories[i]
		}
	}

	if _, err := posts.FindBySlug(ctx, "welcome"); err != nil {
		post := &model.Post{
			Title:       "Welcome",
			Slug:        "welcome",
			Content:     "# Welcome\n\nYour CMS is up and running.",
			ContentType: model.ContentTypeMarkdown,
			Excerpt:     "Your CMS is up and running.",
			Status:      model.PostStatusPublished,
			AuthorID:    admin.ID,
		}
		if general != nil {
			post.Categories = []model.Category{*general}
		}
		if err := posts.Create(ctx, post); err != nil {
			log.Fatalf("Failed to create welcome post: %v", err)
		}
		log.Println("Created welcome post")
	} else {
		log.Println("Welcome post already exists, skipping")
	}

	log.Println("Seed completed")
}
