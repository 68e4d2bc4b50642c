package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// ChatHandler serves the customer/staff support thread.
type ChatHandler struct {
	chats  ChatStore
	tokens *utils.TokenService
	now    func() time.Time
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chats ChatStore, tokens *utils.TokenService) *ChatHandler {
	return &ChatHandler{chats: chats, tokens: tokens, now: time.Now}
}

type chatResponse struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"userId"`
	User        *models.UserSummary  `json:"user,omitempty"`
	Messages    []models.ChatMessage `json:"messages"`
	LastUpdated time.Time            `json:"lastUpdated"`
}

func newChatResponse(chat *models.Chat) chatResponse {
	messages := chat.Messages
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return chatResponse{
		ID:          chat.ID,
		UserID:      chat.UserID,
		User:        chat.User.Summary(),
		Messages:    messages,
		LastUpdated: chat.LastUpdated,
	}
}

// GetChat returns the caller's own thread, creating it on first access, or
// every thread when called with scope=admin.
func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return middleware.ErrUnauthorized
	}

	if actor.IsAdmin() {
		chats, err := h.chats.ListAll(c.UserContext())
		if err != nil {
			return err
		}
		resp := make([]chatResponse, 0, len(chats))
		for i := range chats {
			resp = append(resp, newChatResponse(&chats[i]))
		}
		return c.JSON(resp)
	}

	chat, err := h.chats.FindOrCreate(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(newChatResponse(chat))
}

// chatPost is a message submission. A non-empty UserID makes it a staff
// reply to that user's thread; otherwise the caller writes to their own.
type chatPost struct {
	Text   string `json:"text"`
	UserID string `json:"userId"`
}

func (p chatPost) actingAs() utils.Role {
	if p.UserID != "" {
		return utils.RoleAdmin
	}
	return utils.RoleUser
}

// PostMessage appends a message to a thread and bumps its lastUpdated.
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req chatPost
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Message text is required and must be a non-empty string")
	}

	role := req.actingAs()
	actor, err := middleware.Authenticate(c, h.tokens, role)
	if err != nil {
		return err
	}

	threadOwner := actor.ID
	sender := models.SenderUser
	if role == utils.RoleAdmin {
		threadOwner, err = uuid.Parse(req.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid userId")
		}
		sender = models.SenderAdmin
	}

	chat, err := h.chats.Append(c.UserContext(), threadOwner, models.ChatMessage{
		Sender:    sender,
		Text:      text,
		Timestamp: h.now(),
	})
	if err != nil {
		return err
	}
	return c.JSON(newChatResponse(chat))
}
