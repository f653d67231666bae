package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	boarddomain "github.com/smallbiznis/taskway/internal/board/domain"
)

type BoardRequest struct {
	Name string `json:"name"`
}

func (s *Server) ListBoards(c *gin.Context) {
	boards, err := s.boardSvc.ListByWorkspace(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (s *Server) CreateBoard(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	board, err := s.boardSvc.Create(c.Request.Context(), callerEmail(c), boarddomain.CreateRequest{
		WorkspaceID: c.Param("id"),
		Name:        req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

func (s *Server) GetBoard(c *gin.Context) {
	board, err := s.boardSvc.Get(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) UpdateBoard(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	board, err := s.boardSvc.Update(c.Request.Context(), callerEmail(c), c.Param("id"), boarddomain.UpdateRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) DeleteBoard(c *gin.Context) {
	if err := s.boardSvc.Delete(c.Request.Context(), callerEmail(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListBoardMembers(c *gin.Context) {
	members, err := s.boardSvc.ListMembers(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) InviteBoardMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.boardSvc.InviteMember(c.Request.Context(), callerEmail(c), c.Param("id"), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) RemoveBoardMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.boardSvc.RemoveMember(c.Request.Context(), callerEmail(c), c.Param("id"), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ToggleBoardFavorite(c *gin.Context) {
	favorite, err := s.boardSvc.ToggleFavorite(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}
