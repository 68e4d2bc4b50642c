package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TelegramService alerts staff in a Telegram chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
	log         *zap.Logger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, log *zap.Logger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     "https://api.telegram.org",
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

// Enabled reports whether both the bot token and the staff chat are set.
func (s *TelegramService) Enabled() bool {
	return s.botToken != "" && s.adminChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin posts an HTML message to the staff chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if !s.Enabled() {
		s.log.Debug("telegram not configured, alert skipped")
		return nil
	}

	body, err := json.Marshal(telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// LeadNotification is the content of a new quote request alert.
type LeadNotification struct {
	Name          string
	Phone         string
	Email         string
	VehicleType   string
	VehicleModel  string
	RegNumber     string
	InsuranceType string
}

// NotifyNewLead tells staff a quote request arrived. Failures are logged only.
func (s *TelegramService) NotifyNewLead(ctx context.Context, lead LeadNotification) {
	vehicle := lead.VehicleType
	if lead.VehicleModel != "" {
		vehicle += " / " + lead.VehicleModel
	}
	if lead.RegNumber != "" {
		vehicle += " (" + lead.RegNumber + ")"
	}

	message := fmt.Sprintf(`<b>New quote request</b>
<b>Name:</b> %s
<b>Phone:</b> %s
<b>Email:</b> %s
<b>Vehicle:</b> %s
<b>Insurance:</b> %s`,
		html.EscapeString(lead.Name),
		html.EscapeString(lead.Phone),
		html.EscapeString(lead.Email),
		html.EscapeString(vehicle),
		html.EscapeString(lead.InsuranceType),
	)

	if err := s.SendToAdmin(ctx, strings.TrimSpace(message)); err != nil {
		s.log.Error("telegram lead alert failed", zap.Error(err))
	}
}
