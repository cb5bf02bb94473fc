package agent

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectpilot/orchestrator-backend/internal/conversations"
)

type TurnHandler struct {
	orch *Orchestrator
}

// RegisterTurnRoutes mounts the turn endpoint on the projects group.
func RegisterTurnRoutes(rg *gin.RouterGroup, orch *Orchestrator) {
	h := &TurnHandler{orch: orch}
	rg.POST("/:id/turns", h.runTurn)
}

type turnReq struct {
	Message string `json:"message"`
}

func (h *TurnHandler) runTurn(c *gin.Context) {
	var req turnReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	reply, err := h.orch.RunTurn(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		if errors.Is(err, conversations.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": reply})
}
