package auth

import (
	"github.com/smallbiznis/taskway/internal/auth/repository"
	"github.com/smallbiznis/taskway/internal/auth/service"
	"github.com/smallbiznis/taskway/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(token.NewIssuer),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
