package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskway/internal/config"
	"github.com/smallbiznis/taskway/internal/migration"
	"github.com/smallbiznis/taskway/internal/observability"
	"github.com/smallbiznis/taskway/internal/server"
	"github.com/smallbiznis/taskway/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		server.Module,
	).Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
