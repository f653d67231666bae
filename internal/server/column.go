package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	columndomain "github.com/smallbiznis/taskway/internal/column/domain"
)

type ColumnRequest struct {
	Name string `json:"name"`
}

type MoveColumnRequest struct {
	Order int `json:"order"`
}

func (s *Server) ListColumns(c *gin.Context) {
	columns, err := s.columnSvc.ListByBoard(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (s *Server) CreateColumn(c *gin.Context) {
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	column, err := s.columnSvc.Create(c.Request.Context(), callerEmail(c), columndomain.CreateRequest{
		BoardID: c.Param("id"),
		Name:    req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

func (s *Server) UpdateColumn(c *gin.Context) {
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	column, err := s.columnSvc.Update(c.Request.Context(), callerEmail(c), c.Param("id"), columndomain.UpdateRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func (s *Server) MoveColumn(c *gin.Context) {
	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	column, err := s.columnSvc.Move(c.Request.Context(), callerEmail(c), c.Param("id"), req.Order)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func (s *Server) DeleteColumn(c *gin.Context) {
	if err := s.columnSvc.Delete(c.Request.Context(), callerEmail(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
