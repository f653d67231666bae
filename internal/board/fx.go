package board

import (
	"github.com/smallbiznis/taskway/internal/board/repository"
	"github.com/smallbiznis/taskway/internal/board/service"
	"go.uber.org/fx"
)

var Module = fx.Module("board.service",
	fx.Provide(
		repository.New,
		service.New,
	),
)
