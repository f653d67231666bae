package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	workspacedomain "github.com/smallbiznis/taskway/internal/workspace/domain"
)

type WorkspaceRequest struct {
	Name string `json:"name"`
}

type MemberRequest struct {
	Email string `json:"email"`
}

func (s *Server) ListWorkspaces(c *gin.Context) {
	workspaces, err := s.workspaceSvc.List(c.Request.Context(), callerEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

func (s *Server) CreateWorkspace(c *gin.Context) {
	var req WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	workspace, err := s.workspaceSvc.Create(c.Request.Context(), callerEmail(c), workspacedomain.CreateRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workspace)
}

func (s *Server) GetWorkspace(c *gin.Context) {
	workspace, err := s.workspaceSvc.Get(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workspace)
}

func (s *Server) UpdateWorkspace(c *gin.Context) {
	var req WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	workspace, err := s.workspaceSvc.Update(c.Request.Context(), callerEmail(c), c.Param("id"), workspacedomain.UpdateRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workspace)
}

func (s *Server) DeleteWorkspace(c *gin.Context) {
	if err := s.workspaceSvc.Delete(c.Request.Context(), callerEmail(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListWorkspaceMembers(c *gin.Context) {
	members, err := s.workspaceSvc.ListMembers(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) InviteWorkspaceMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.workspaceSvc.InviteMember(c.Request.Context(), callerEmail(c), c.Param("id"), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) RemoveWorkspaceMember(c *gin.Context) {
	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.workspaceSvc.RemoveMember(c.Request.Context(), callerEmail(c), c.Param("id"), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
