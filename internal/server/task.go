package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/smallbiznis/taskway/internal/task/domain"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type MoveTaskRequest struct {
	ColumnID string `json:"column_id"`
	Order    int    `json:"order"`
}

func (s *Server) ListTasks(c *gin.Context) {
	tasks, err := s.taskSvc.ListByColumn(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.taskSvc.Create(c.Request.Context(), callerEmail(c), taskdomain.CreateRequest{
		ColumnID:    c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) GetTask(c *gin.Context) {
	task, err := s.taskSvc.Get(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.taskSvc.Update(c.Request.Context(), callerEmail(c), c.Param("id"), taskdomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) MoveTask(c *gin.Context) {
	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.taskSvc.Move(c.Request.Context(), callerEmail(c), c.Param("id"), taskdomain.MoveRequest{
		ColumnID: req.ColumnID,
		NewOrder: req.Order,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) DeleteTask(c *gin.Context) {
	if err := s.taskSvc.Delete(c.Request.Context(), callerEmail(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
