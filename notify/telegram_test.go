package notify

import (
	"errors"
	"testing"
	"time"

	"climate-hub/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSender struct {
	sent chan tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent <- c.(tgbotapi.MessageConfig)
	return tgbotapi.Message{}, f.err
}

func sample() models.Report {
	return models.Report{
		ID:          primitive.NewObjectID(),
		Title:       "Burning tyres",
		Description: "Open burning behind the market every evening.",
		Category:    models.CategoryPollution,
		Severity:    models.SeverityCritical,
		Latitude:    6.5244,
		Longitude:   3.3792,
		Photos:      []string{"a", "b"},
	}
}

func TestReportMessage(t *testing.T) {
	r := sample()
	msg := ReportMessage(r)

	assert.Contains(t, msg, "🔴 New pollution report (critical)")
	assert.Contains(t, msg, "Burning tyres")
	assert.Contains(t, msg, "mlat=6.52440&mlon=3.37920")
	assert.Contains(t, msg, "2 photo(s)")
	assert.Contains(t, msg, r.ID.Hex())
}

func TestTelegramReportCreated(t *testing.T) {
	for _, sendErr := range []error{nil, errors.New("telegram down")} {
		f := &fakeSender{sent: make(chan tgbotapi.MessageConfig, 1), err: sendErr}
		tg := &Telegram{api: f, chatID: -100123}

		tg.ReportCreated(sample())

		select {
		case m := <-f.sent:
			assert.Equal(t, int64(-100123), m.ChatID)
			assert.Contains(t, m.Text, "Burning tyres")
		case <-time.After(time.Second):
			require.Fail(t, "message not sent")
		}
	}
}
