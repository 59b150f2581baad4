package observability

import (
	"github.com/smallbiznis/petalbook/internal/config"
	"github.com/smallbiznis/petalbook/internal/observability/logger"
	"github.com/smallbiznis/petalbook/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideLoggerConfig,
		logger.New,
		metrics.NewHTTPMetrics,
	),
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.AppName,
		Environment:         cfg.Environment,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               !cfg.IsProduction(),
		IncludeCaller:       true,
		IncludeStackOnError: !cfg.IsProduction(),
	}
}
