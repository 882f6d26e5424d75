// Package notify tells moderators about new environmental reports.
package notify

import (
	"fmt"
	"strings"

	"climate-hub/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier is called after a report has been stored.
type Notifier interface {
	ReportCreated(r models.Report)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a message per report to a moderators' chat.
type Telegram struct {
	api    sender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	zap.L().Info("telegram notifications enabled", zap.String("bot", api.Self.UserName), zap.Int64("chat", chatID))
	return &Telegram{api: api, chatID: chatID}, nil
}

// ReportCreated sends in the background; a failed send is only logged.
func (t *Telegram) ReportCreated(r models.Report) {
	msg := tgbotapi.NewMessage(t.chatID, ReportMessage(r))
	go func() {
		if _, err := t.api.Send(msg); err != nil {
			zap.L().Warn("telegram notification failed", zap.String("report", r.ID.Hex()), zap.Error(err))
		}
	}()
}

var severityIcon = map[models.ReportSeverity]string{
	models.SeverityLow:      "🟢",
	models.SeverityMedium:   "🟡",
	models.SeverityHigh:     "🟠",
	models.SeverityCritical: "🔴",
}

// ReportMessage renders the moderator alert.
func ReportMessage(r models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s New %s report (%s)\n", severityIcon[r.Severity], r.Category, r.Severity)
	fmt.Fprintf(&b, "%s\n\n%s\n\n", r.Title, r.Description)
	fmt.Fprintf(&b, "📍 https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f\n", r.Latitude, r.Longitude)
	fmt.Fprintf(&b, "🖼 %d photo(s) · id %s", len(r.Photos), r.ID.Hex())
	return b.String()
}
