//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/glow-advisor/internal/bootstrap"
	"github.com/yanqian/glow-advisor/internal/domain/analysis"
	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
	"github.com/yanqian/glow-advisor/internal/domain/profile"
	"github.com/yanqian/glow-advisor/internal/domain/recommend"
	"github.com/yanqian/glow-advisor/internal/domain/selfie"
	"github.com/yanqian/glow-advisor/internal/infra/catalog"
	"github.com/yanqian/glow-advisor/internal/infra/config"
	"github.com/yanqian/glow-advisor/internal/infra/inference"
	httpiface "github.com/yanqian/glow-advisor/internal/interface/http"
	"github.com/yanqian/glow-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAnalysisConfig,
		provideProfileConfig,
		provideRecommendConfig,
		provideJobConfig,
		provideSelfieConfig,
		provideHeuristicExtractor,
		provideMetricExtractor,
		provideCatalog,
		provideProfileRepository,
		provideValkeyClient,
		provideRecommendCache,
		provideJobStore,
		provideJobQueue,
		provideAnalysisQueue,
		provideJobProfiles,
		provideRecommendSource,
		provideObjectStorage,
		analysis.NewService,
		profile.NewService,
		recommend.NewEngine,
		recommend.NewService,
		analysisjob.NewService,
		selfie.NewService,
		wire.Bind(new(recommend.Catalog), new(*catalog.Catalog)),
		wire.Bind(new(httpiface.ProductCatalog), new(*catalog.Catalog)),
		wire.Bind(new(httpiface.ReadinessProbe), new(*analysis.HeuristicExtractor)),
		wire.Bind(new(analysis.MetricExtractor), new(*inference.BreakerExtractor)),
		wire.Bind(new(httpiface.BreakerStatus), new(*inference.BreakerExtractor)),
		wire.Bind(new(bootstrap.Warmer), new(*analysis.HeuristicExtractor)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
