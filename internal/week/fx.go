package week

import (
	"github.com/smallbiznis/petalbook/internal/week/repository"
	"github.com/smallbiznis/petalbook/internal/week/service"
	"go.uber.org/fx"
)

var Module = fx.Module("week.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
