package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"linkboard/internal/auth"
	"linkboard/internal/config"
	"linkboard/internal/handler"
	"linkboard/internal/logging"
	"linkboard/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *logging.SlogLogger,
	gate *auth.Gate,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	pluginHandler *handler.PluginHandler,
) {
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticated := gate.Authenticate()
	adminOnly := auth.Authorize(model.RoleAdmin)

	api := e.Group("/api/v1")

	users := api.Group("/user")
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, authenticated)
	users.GET("/userPost", userHandler.UserPosts, authenticated)
	users.POST("/register", authHandler.Register, authenticated, adminOnly)
	users.GET("/", userHandler.ListUsers, authenticated, adminOnly)
	users.GET("/getSpecificUser/:id", userHandler.GetUser, authenticated, adminOnly)
	users.PUT("/:id", userHandler.UpdateUser, authenticated, adminOnly)
	users.DELETE("/:id", userHandler.DeleteUser, authenticated, adminOnly)

	posts := api.Group("/post")
	posts.GET("/specificId/:id", postHandler.GetPost)
	posts.POST("/", postHandler.CreatePost, authenticated)
	posts.GET("/", postHandler.ListPosts, authenticated)
	posts.GET("/summaries", postHandler.ListSummaries, authenticated)
	posts.PUT("/:id", postHandler.UpdatePost, authenticated)
	posts.DELETE("/:id", postHandler.DeletePost, authenticated)
	posts.PUT("/userPostApproved/:id", postHandler.ApprovePost, authenticated, adminOnly)
	posts.PUT("/userPostUnapproved/:id", postHandler.UnapprovePost, authenticated, adminOnly)

	api.GET("/plugin/", pluginHandler.ApprovedPosts)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
