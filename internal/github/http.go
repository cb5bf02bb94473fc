package github

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectpilot/orchestrator-backend/internal/projects"
)

type Handler struct {
	client *Client
	svc    *projects.Service
}

// Register mounts repository provisioning on the projects group. client may
// be nil when no token is configured; the route then reports the feature as
// unavailable.
func Register(rg *gin.RouterGroup, client *Client, svc *projects.Service) {
	h := &Handler{client: client, svc: svc}
	rg.POST("/:id/repository", h.provision)
}

type provisionReq struct {
	Name    string `json:"name"`
	Private *bool  `json:"private"`
}

func (h *Handler) provision(c *gin.Context) {
	if h.client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "github integration is not configured"})
		return
	}

	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if p.GitHubRepoURL != nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "project already has a repository"})
		return
	}

	var req provisionReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	private := true
	if req.Private != nil {
		private = *req.Private
	}

	description := ""
	if p.Description != nil {
		description = *p.Description
	}

	url, err := h.client.CreateRepo(c.Request.Context(), strings.TrimSpace(req.Name), description, private)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	updated, err := h.svc.SetRepoURL(c.Request.Context(), p.ID, url)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": updated})
}
