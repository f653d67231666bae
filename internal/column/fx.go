package column

import (
	"github.com/smallbiznis/taskway/internal/column/repository"
	"github.com/smallbiznis/taskway/internal/column/service"
	"go.uber.org/fx"
)

var Module = fx.Module("column.service",
	fx.Provide(
		repository.New,
		service.New,
	),
)
