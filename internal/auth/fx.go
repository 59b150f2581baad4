package auth

import (
	"github.com/smallbiznis/petalbook/internal/auth/repository"
	"github.com/smallbiznis/petalbook/internal/auth/service"
	"github.com/smallbiznis/petalbook/internal/auth/session"
	"github.com/smallbiznis/petalbook/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(token.New),
	fx.Provide(session.NewManager),
	fx.Provide(service.New),
)
