package telegram

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectpilot/orchestrator-backend/internal/projects"
)

// TurnRunner is the slice of the orchestrator the webhook needs.
type TurnRunner interface {
	RunTurn(ctx context.Context, projectID, userText string) (string, error)
}

// ProjectResolver maps a chat to its bound project.
type ProjectResolver interface {
	GetByChatID(ctx context.Context, chatID int64) (*projects.Project, error)
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type Webhook struct {
	client   *Client
	runner   TurnRunner
	resolver ProjectResolver
}

func RegisterWebhook(r gin.IRouter, client *Client, runner TurnRunner, resolver ProjectResolver) {
	h := &Webhook{client: client, runner: runner, resolver: resolver}
	r.POST("/telegram/webhook", h.handle)
}

// handle always answers 200 to Telegram; anything else makes the Bot API
// redeliver the update and the user would see duplicate replies.
func (h *Webhook) handle(c *gin.Context) {
	var update Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	ctx := c.Request.Context()
	chatID := update.Message.Chat.ID

	project, err := h.resolver.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			h.reply(ctx, chatID, "This chat is not linked to a project yet. Create a project and bind this chat first.")
		} else {
			log.Printf("telegram: resolve chat %d: %v", chatID, err)
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	reply, err := h.runner.RunTurn(ctx, project.ID, update.Message.Text)
	if err != nil {
		log.Printf("telegram: turn failed for project %s: %v", project.ID, err)
		h.reply(ctx, chatID, "Something went wrong on my side. Please try again in a moment.")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	h.reply(ctx, chatID, reply)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Webhook) reply(ctx context.Context, chatID int64, text string) {
	if err := h.client.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("telegram: send to chat %d: %v", chatID, err)
	}
}
