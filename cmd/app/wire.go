//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

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
	"github.com/linwei/smartliving/internal/domain/telemetry"
	"github.com/linwei/smartliving/internal/infra/config"
	"github.com/linwei/smartliving/internal/infra/llm/deepseek"
	"github.com/linwei/smartliving/internal/infra/openmeteo"
	"github.com/linwei/smartliving/internal/infra/pexels"
	httpiface "github.com/linwei/smartliving/internal/interface/http"
	"github.com/linwei/smartliving/pkg/logger"
	"github.com/linwei/smartliving/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRegistry,
		provideOpenMeteoClient,
		provideEnvironmentConfig,
		provideReadingStore,
		provideDeepSeekClient,
		provideAssistantConfig,
		providePexelsClient,
		providePhotosConfig,
		providePoller,
		providePgxPool,
		provideDeviceRepository,
		providePlantRepository,
		provideForumRepository,
		provideFeedbackRepository,
		provideEmbedder,
		provideUploadsService,
		provideAuthConfig,
		geo.NewService,
		environment.NewService,
		assistant.NewService,
		photos.NewService,
		devices.NewService,
		plants.NewService,
		forum.NewService,
		feedback.NewService,
		auth.NewService,
		wire.Bind(new(geo.Geocoder), new(*openmeteo.Client)),
		wire.Bind(new(environment.WeatherClient), new(*openmeteo.Client)),
		wire.Bind(new(environment.AirQualityClient), new(*openmeteo.Client)),
		wire.Bind(new(assistant.ChatClient), new(*deepseek.Client)),
		wire.Bind(new(photos.PhotoClient), new(*pexels.Client)),
		wire.Bind(new(devices.LiveSource), new(*telemetry.Poller)),
		wire.Bind(new(plants.GuideGenerator), new(assistant.Service)),
		httpiface.NewHandler,
		httpiface.NewGardenHandler,
		httpiface.NewCommunityHandler,
		httpiface.NewTelemetryWSHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
