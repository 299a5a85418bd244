package main

import (
	"fmt"
	"log"

	"github.com/jaehyun-dev/portfolio-backend/adapters/event"
	httpAdapter "github.com/jaehyun-dev/portfolio-backend/adapters/http"
	"github.com/jaehyun-dev/portfolio-backend/adapters/media_storage"
	"github.com/jaehyun-dev/portfolio-backend/adapters/persistence"
	imageUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/image"
	profileUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/profile"
	projectUC "github.com/jaehyun-dev/portfolio-backend/internal/application/usecase/project"
	"github.com/jaehyun-dev/portfolio-backend/internal/config"
	"github.com/jaehyun-dev/portfolio-backend/pkg/logger"
)

func main() {
	fmt.Println("Start Portfolio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	projectRepo := persistence.NewPostgresProjectRepo(dbPool, appLogger)
	projectCache := persistence.NewProjectCache(redisClient, appLogger)

	// Image store
	imageStore := media_storage.NewLocalStore(cfg, appLogger)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, imageStore, kafkaClient, appLogger)
	createProjectUseCase := projectUC.NewCreateProjectUseCase(projectRepo, imageStore, projectCache, kafkaClient, appLogger)
	listProjectsUseCase := projectUC.NewListProjectsUseCase(projectRepo, projectCache)
	getProjectUseCase := projectUC.NewGetProjectUseCase(projectRepo, projectCache)
	updateProjectUseCase := projectUC.NewUpdateProjectUseCase(projectRepo, imageStore, projectCache, kafkaClient, appLogger)
	deleteProjectUseCase := projectUC.NewDeleteProjectUseCase(projectRepo, projectCache, kafkaClient, appLogger)
	troubleShootingUseCase := projectUC.NewTroubleShootingUseCase(projectRepo, imageStore, projectCache, kafkaClient, appLogger)
	imageUseCase := imageUC.NewImageUseCase(imageStore, kafkaClient, appLogger)

	// HTTP Handlers
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase, appLogger)
	projectHandler := httpAdapter.NewProjectHandler(
		createProjectUseCase,
		listProjectsUseCase,
		getProjectUseCase,
		updateProjectUseCase,
		deleteProjectUseCase,
		troubleShootingUseCase,
		appLogger,
	)
	imageHandler := httpAdapter.NewImageHandler(imageUseCase, appLogger)

	router := httpAdapter.SetupRouter(profileHandler, projectHandler, imageHandler, appLogger)

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
