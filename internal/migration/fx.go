package migration

import (
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	boarddomain "github.com/smallbiznis/taskway/internal/board/domain"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
	"github.com/smallbiznis/taskway/internal/config"
	"github.com/smallbiznis/taskway/internal/seed"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&workspacedomain.Workspace{}, &workspacedomain.WorkspaceMember{},
				&boarddomain.Board{}, &boarddomain.BoardMember{}, &boarddomain.BoardFavorite{},
				&columndomain.Column{}, &taskdomain.Task{},
			); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.EnsureAdminUser {
			return seed.EnsureAdminUser(conn, cfg.Bootstrap)
		}
		return nil
	}),
)
