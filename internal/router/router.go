package router

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tcdw/cms/internal/auth"
	apperr "github.com/tcdw/cms/internal/errors"
	"github.com/tcdw/cms/internal/handler"
	"github.com/tcdw/cms/internal/model"
	"github.com/tcdw/cms/internal/validation"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	categoryHandler *handler.CategoryHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = validation.New()
	e.HTTPErrorHandler = errorHandler

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	api.GET("/health", health)

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/posts", postHandler.ListPosts)
	api.GET("/posts/:id", postHandler.GetPost)
	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)

	// Secured routes (require a bearer token)
	secured := api.Group("", echojwt.WithConfig(jwtConfig(jwtService)))

	secured.GET("/profile", authHandler.Profile)
	secured.POST("/profile/change-password", authHandler.ChangePassword)

	secured.POST("/posts", postHandler.CreatePost)
	secured.PATCH("/posts/:id", postHandler.UpdatePost)
	secured.DELETE("/posts/:id", postHandler.DeletePost)

	// Admin routes
	admin := secured.Group("", AdminOnly)
	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, handler.Response{
		Success: true,
		Data: map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   Version,
		},
	})
}

// jwtConfig builds the authentication middleware: the bearer token is
// extracted with the strict "Bearer " prefix rule and verified by the token
// service; any failure short-circuits with a 401 envelope.
func jwtConfig(jwtService *auth.JWTService) echojwt.Config {
	return echojwt.Config{
		TokenLookupFuncs: []middleware.ValuesExtractor{
			func(c echo.Context) ([]string, error) {
				token := auth.ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
				if token == "" {
					return nil, errors.New("missing bearer token")
				}
				return []string{token}, nil
			},
		},
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims := jwtService.VerifyToken(token)
			if claims == nil {
				return nil, errors.New("invalid or expired token")
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperr.Unauthenticated("authentication required")
		},
	}
}

// AdminOnly short-circuits with 403 unless the caller holds the admin role.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("user").(*auth.Claims)
		if !ok {
			return apperr.Unauthenticated("authentication required")
		}
		if claims.Role != model.RoleAdmin {
			return apperr.Forbidden("admin role required")
		}
		return next(c)
	}
}

// errorHandler converts every error reaching the HTTP boundary into the
// uniform JSON envelope. Only taxonomy members map to their own status codes;
// anything unrecognized becomes a 500 without leaking internals.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if appErr, ok := apperr.As(err); ok {
		_ = c.JSON(appErr.Kind.Status(), handler.Response{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := fmt.Sprintf("%v", httpErr.Message)
		if httpErr.Code == http.StatusNotFound {
			msg = "route not found"
		}
		_ = c.JSON(httpErr.Code, handler.Response{
			Success: false,
			Message: msg,
		})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, handler.Response{
		Success: false,
		Message: "Internal server error",
	})
}
