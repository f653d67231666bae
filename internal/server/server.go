package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/taskway/internal/auth"
	authdomain "github.com/smallbiznis/taskway/internal/auth/domain"
	"github.com/smallbiznis/taskway/internal/board"
	boarddomain "github.com/smallbiznis/taskway/internal/board/domain"
	"github.com/smallbiznis/taskway/internal/column"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
	"github.com/smallbiznis/taskway/internal/config"
	"github.com/smallbiznis/taskway/internal/observability"
	obsmiddleware "github.com/smallbiznis/taskway/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/taskway/internal/observability/metrics"
	obstracing "github.com/smallbiznis/taskway/internal/observability/tracing"
	"github.com/smallbiznis/taskway/internal/permission"
	"github.com/smallbiznis/taskway/internal/task"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
	"github.com/smallbiznis/taskway/internal/workspace"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	permission.Module,
	workspace.Module,
	board.Module,
	column.Module,
	task.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	authsvc      authdomain.Service
	workspaceSvc workspacedomain.Service
	boardSvc     boarddomain.Service
	columnSvc    columndomain.Service
	taskSvc      taskdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Authsvc      authdomain.Service
	WorkspaceSvc workspacedomain.Service
	BoardSvc     boarddomain.Service
	ColumnSvc    columndomain.Service
	TaskSvc      taskdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		authsvc:      p.Authsvc,
		workspaceSvc: p.WorkspaceSvc,
		boardSvc:     p.BoardSvc,
		columnSvc:    p.ColumnSvc,
		taskSvc:      p.TaskSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	api.GET("/workspaces", s.ListWorkspaces)
	api.POST("/workspaces", s.CreateWorkspace)
	api.GET("/workspaces/:id", s.GetWorkspace)
	api.PATCH("/workspaces/:id", s.UpdateWorkspace)
	api.DELETE("/workspaces/:id", s.DeleteWorkspace)
	api.GET("/workspaces/:id/members", s.ListWorkspaceMembers)
	api.POST("/workspaces/:id/members", s.InviteWorkspaceMember)
	api.DELETE("/workspaces/:id/members", s.RemoveWorkspaceMember)
	api.GET("/workspaces/:id/boards", s.ListBoards)
	api.POST("/workspaces/:id/boards", s.CreateBoard)

	api.GET("/boards/:id", s.GetBoard)
	api.PATCH("/boards/:id", s.UpdateBoard)
	api.DELETE("/boards/:id", s.DeleteBoard)
	api.GET("/boards/:id/members", s.ListBoardMembers)
	api.POST("/boards/:id/members", s.InviteBoardMember)
	api.DELETE("/boards/:id/members", s.RemoveBoardMember)
	api.POST("/boards/:id/favorite", s.ToggleBoardFavorite)
	api.GET("/boards/:id/columns", s.ListColumns)
	api.POST("/boards/:id/columns", s.CreateColumn)

	api.PATCH("/columns/:id", s.UpdateColumn)
	api.DELETE("/columns/:id", s.DeleteColumn)
	api.POST("/columns/:id/move", s.MoveColumn)
	api.GET("/columns/:id/tasks", s.ListTasks)
	api.POST("/columns/:id/tasks", s.CreateTask)

	api.GET("/tasks/:id", s.GetTask)
	api.PATCH("/tasks/:id", s.UpdateTask)
	api.DELETE("/tasks/:id", s.DeleteTask)
	api.POST("/tasks/:id/move", s.MoveTask)
}
