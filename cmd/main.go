package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vardkurs/coursegen-backend/internal/cache"
	"github.com/vardkurs/coursegen-backend/internal/clients/aigateway"
	"github.com/vardkurs/coursegen-backend/internal/clients/bunny"
	"github.com/vardkurs/coursegen-backend/internal/clients/elevenlabs"
	"github.com/vardkurs/coursegen-backend/internal/clients/heygen"
	"github.com/vardkurs/coursegen-backend/internal/clients/media"
	"github.com/vardkurs/coursegen-backend/internal/clients/presenton"
	"github.com/vardkurs/coursegen-backend/internal/db"
	"github.com/vardkurs/coursegen-backend/internal/generation"
	"github.com/vardkurs/coursegen-backend/internal/handlers"
	"github.com/vardkurs/coursegen-backend/internal/logger"
	"github.com/vardkurs/coursegen-backend/internal/observability"
	"github.com/vardkurs/coursegen-backend/internal/persist"
	"github.com/vardkurs/coursegen-backend/internal/repos"
	"github.com/vardkurs/coursegen-backend/internal/server"
	"github.com/vardkurs/coursegen-backend/internal/utils"
	"github.com/vardkurs/coursegen-backend/internal/workflow"
)

const serviceName = "coursegen-backend"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	ctx := context.Background()
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		if err := shutdownOtel(context.Background()); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	courseRepo := repos.NewCourseRepo(thePG, log)
	courseModuleRepo := repos.NewCourseModuleRepo(thePG, log)
	titleSuggestionRepo := repos.NewTitleSuggestionRepo(thePG, log)
	moduleScriptRepo := repos.NewModuleScriptRepo(thePG, log)
	slideRepo := repos.NewSlideRepo(thePG, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(thePG, log)
	moduleExerciseRepo := repos.NewModuleExerciseRepo(thePG, log)
	moduleAudioRepo := repos.NewModuleAudioRepo(thePG, log)
	moduleVideoRepo := repos.NewModuleVideoRepo(thePG, log)
	presentonTaskRepo := repos.NewPresentonTaskRepo(thePG, log)

	store := persist.NewStore(
		courseRepo,
		courseModuleRepo,
		titleSuggestionRepo,
		moduleScriptRepo,
		slideRepo,
		quizQuestionRepo,
		moduleExerciseRepo,
		moduleAudioRepo,
		moduleVideoRepo,
		presentonTaskRepo,
		log,
	)

	// Collaborator clients. Each is optional; a missing key disables the
	// steps that depend on it rather than blocking startup.
	log.Info("Setting up collaborator clients from main...")
	aiClient, err := aigateway.NewClient(log)
	if err != nil {
		log.Warn("Could not init AI gateway client", "error", err)
	}
	voiceClient, err := elevenlabs.NewClient(log)
	if err != nil {
		log.Warn("Could not init ElevenLabs client", "error", err)
	}
	avatarClient, err := heygen.NewClient(log)
	if err != nil {
		log.Warn("Could not init HeyGen client", "error", err)
	}
	hostingClient, err := bunny.NewClient(log)
	if err != nil {
		log.Warn("Could not init Bunny client", "error", err)
	}
	exportClient, err := presenton.NewClient(log)
	if err != nil {
		log.Warn("Could not init Presenton client", "error", err)
	}
	photoClient, err := media.NewClient(log)
	if err != nil {
		log.Warn("Could not init photo search client", "error", err)
	}
	searchCache, err := cache.NewSearchCache(log)
	if err != nil {
		log.Warn("Could not init search cache", "error", err)
	}
	if searchCache != nil {
		defer searchCache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	genService := generation.NewService(aiClient, voiceClient, avatarClient, hostingClient, exportClient, photoClient, searchCache, log)
	manager := workflow.NewManager(genService, store, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	workflowHandler := handlers.NewWorkflowHandler(log, manager, courseRepo)
	mediaHandler := handlers.NewMediaHandler(log, voiceClient, avatarClient, photoClient, searchCache)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:     serviceName,
		WorkflowHandler: workflowHandler,
		MediaHandler:    mediaHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
