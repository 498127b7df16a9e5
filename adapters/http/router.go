package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type RouterDeps struct {
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	JWTService     *auth.JWTService
	Logger         logger.Logger
	Production     bool
	// UploadDir is served under /uploads when set.
	UploadDir          string
	MaxMultipartMemory int64
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))
	router.Use(ErrorMiddleware(deps.Logger, deps.Production))

	if deps.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = deps.MaxMultipartMemory
	}
	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	authMiddleware := AuthMiddleware(deps.JWTService, deps.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})

		users := api.Group("/user")
		{
			users.POST("/register", deps.AuthHandler.Register)
			users.POST("/login", deps.AuthHandler.Login)

			private := users.Group("")
			private.Use(authMiddleware)
			{
				private.DELETE("/deleteProfile/:email", deps.ProfileHandler.DeleteProfile)
				private.PUT("/updateProfile", deps.ProfileHandler.UpdateProfile)
				private.GET("/getProfile/:email", deps.ProfileHandler.GetProfile)
				private.GET("/getAllProfiles", deps.ProfileHandler.ListProfiles)
			}
		}
	}

	return router
}
