package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

// SetupRouter wires every route onto a fresh engine. The JSON and multipart
// variants of the profile/project endpoints share one route each; the
// handlers branch on the request content type.
func SetupRouter(
	profileHandler *ProfileHandler,
	projectHandler *ProjectHandler,
	imageHandler *ImageHandler,
	log logger.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ErrorMiddleware(log))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		profiles := api.Group("/profiles")
		{
			profiles.GET("", profileHandler.GetFirstProfile)
			profiles.GET("/:id", profileHandler.GetProfile)
			profiles.POST("", profileHandler.CreateProfile)
			profiles.PUT("/:id", profileHandler.UpdateProfile)
			profiles.DELETE("/:id", profileHandler.DeleteProfile)

			profiles.POST("/:id/careers", profileHandler.AddCareer)
			profiles.PUT("/:id/careers/:careerId", profileHandler.UpdateCareer)
			profiles.DELETE("/:id/careers/:careerId", profileHandler.DeleteCareer)

			profiles.POST("/:id/educations", profileHandler.AddEducation)
			profiles.PUT("/:id/educations/:educationId", profileHandler.UpdateEducation)
			profiles.DELETE("/:id/educations/:educationId", profileHandler.DeleteEducation)

			profiles.POST("/:id/skills", profileHandler.AddSkill)
			profiles.PUT("/:id/skills/:skillId", profileHandler.UpdateSkill)
			profiles.DELETE("/:id/skills/:skillId", profileHandler.DeleteSkill)

			profiles.POST("/:id/socials", profileHandler.AddSocial)
			profiles.PUT("/:id/socials/:socialId", profileHandler.UpdateSocial)
			profiles.DELETE("/:id/socials/:socialId", profileHandler.DeleteSocial)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", projectHandler.CreateProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)

			projects.POST("/:id/troubleshooting", projectHandler.AddTroubleShooting)
			projects.PUT("/:id/troubleshooting/:troubleShootingId", projectHandler.UpdateTroubleShooting)
			projects.DELETE("/:id/troubleshooting/:troubleShootingId", projectHandler.DeleteTroubleShooting)
		}

		images := api.Group("/images")
		{
			images.POST("/upload", imageHandler.UploadImage)
			images.GET("/:fileName", imageHandler.GetImage)
		}
	}

	return router
}
