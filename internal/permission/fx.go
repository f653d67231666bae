package permission

import (
	"github.com/smallbiznis/taskway/internal/permission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("permission.service",
	fx.Provide(service.New),
)
