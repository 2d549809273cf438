package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	_ "github.com/tcdw/cms/docs" // swagger docs

	"github.com/tcdw/cms/internal/auth"
	"github.com/tcdw/cms/internal/cache"
	"github.com/tcdw/cms/internal/config"
	"github.com/tcdw/cms/internal/db"
	"github.com/tcdw/cms/internal/handler"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/repository"
	"github.com/tcdw/cms/internal/router"
	"github.com/tcdw/cms/internal/service"
)

// @title Headless CMS API
// @version 1.0
// @description Headless content-management REST API with users, posts, categories and JWT authentication.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, jwtService)
	postService := service.NewPostService(postRepo, categoryRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	e := echo.New()
	router.Register(e, jwtService, authHandler, postHandler, categoryHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
