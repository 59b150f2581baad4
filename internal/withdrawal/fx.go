package withdrawal

import (
	"github.com/smallbiznis/petalbook/internal/withdrawal/repository"
	"github.com/smallbiznis/petalbook/internal/withdrawal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("withdrawal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
