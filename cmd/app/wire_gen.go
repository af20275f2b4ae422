// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package main

import (
	"github.com/linwei/smartliving/internal/bootstrap"
	"github.com/linwei/smartliving/internal/domain/assistant"
	"github.com/linwei/smartliving/internal/domain/auth"
	"github.com/linwei/smartliving/internal/domain/devices"
	"github.com/linwei/smartliving/internal/domain/environment"
	"github.com/linwei/smartliving/internal/domain/feedback"
	"github.com/linwei/smartliving/internal/domain/forum"
	"github.com/linwei/smartliving/internal/domain/geo"
	"github.com/linwei/smartliving/internal/domain/photos"
	"github.com/linwei/smartliving/internal/domain/plants"
	"github.com/linwei/smartliving/internal/infra/config"
	"github.com/linwei/smartliving/internal/interface/http"
	"github.com/linwei/smartliving/pkg/logger"
	"github.com/linwei/smartliving/pkg/metrics"
)

// Injectors from wire.go:

func initializeApp() (*bootstrap.App, error) {
	configConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	slogLogger := logger.New()
	environmentConfig := provideEnvironmentConfig(configConfig)
	registry := metrics.NewRegistry()
	client := provideOpenMeteoClient(configConfig, registry)
	service := geo.NewService(client, slogLogger)
	store := provideReadingStore(configConfig, slogLogger)
	environmentService := environment.NewService(environmentConfig, service, client, client, store, slogLogger)
	assistantConfig := provideAssistantConfig(configConfig)
	deepseekClient := provideDeepSeekClient(configConfig, registry)
	assistantService := assistant.NewService(assistantConfig, deepseekClient, slogLogger)
	photosConfig := providePhotosConfig(configConfig)
	pexelsClient := providePexelsClient(configConfig, registry)
	photosService := photos.NewService(photosConfig, pexelsClient, slogLogger)
	poller := providePoller(configConfig, registry, slogLogger)
	handler := http.NewHandler(environmentService, assistantService, photosService, poller, slogLogger)
	pool := providePgxPool(configConfig, slogLogger)
	repository := providePlantRepository(pool)
	plantsService := plants.NewService(repository, assistantService, slogLogger)
	devicesRepository := provideDeviceRepository(pool)
	devicesService := devices.NewService(devicesRepository, poller, slogLogger)
	gardenHandler := http.NewGardenHandler(plantsService, devicesService, slogLogger)
	forumRepository := provideForumRepository(pool)
	embedder := provideEmbedder(configConfig, deepseekClient, slogLogger)
	forumService := forum.NewService(forumRepository, embedder, slogLogger)
	feedbackRepository := provideFeedbackRepository(pool)
	feedbackService := feedback.NewService(feedbackRepository, slogLogger)
	uploadsService := provideUploadsService(configConfig, slogLogger)
	communityHandler := http.NewCommunityHandler(forumService, feedbackService, uploadsService, slogLogger)
	telemetryWSHandler := http.NewTelemetryWSHandler(poller, slogLogger)
	authConfig := provideAuthConfig(configConfig)
	authService := auth.NewService(authConfig, slogLogger)
	server := http.NewRouter(configConfig, handler, gardenHandler, communityHandler, telemetryWSHandler, authService, registry, slogLogger)
	app := bootstrap.NewApp(configConfig, slogLogger, server, poller)
	return app, nil
}
