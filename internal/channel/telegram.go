package channel

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/nightpulse/nightpulse/internal/report"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

// TelegramSender delivers reports as a photo with an HTML caption via the
// Telegram Bot API.
type TelegramSender struct {
	charts ChartGenerator
	token  func() string
	log    *zap.SugaredLogger
}

// NewTelegramSender creates a Telegram sender. token is resolved lazily at
// send time so secret rotation does not require a restart.
func NewTelegramSender(charts ChartGenerator, token func() string, log *zap.SugaredLogger) *TelegramSender {
	return &TelegramSender{charts: charts, token: token, log: log}
}

// Channel implements Sender.
func (t *TelegramSender) Channel() sleep.Channel {
	return sleep.ChannelTelegram
}

// Enabled implements Sender.
func (t *TelegramSender) Enabled(s Settings) bool {
	return s.Channels.Telegram.Enabled
}

// Send implements Sender. Missing token or chat ID fails immediately,
// before any chart is generated.
func (t *TelegramSender) Send(ctx context.Context, day sleep.Day, s Settings) bool {
	token := t.token()
	chatID := s.Channels.Telegram.ChatID
	if token == "" || chatID == "" {
		t.log.Warnw("telegram not configured", "date", day.Date)
		return false
	}

	chartPath, err := t.charts.Generate(day)
	if err != nil {
		t.log.Warnw("chart generation failed, will retry later", "date", day.Date, "error", err)
		return false
	}
	defer t.charts.Remove(chartPath)

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		t.log.Warnw("telegram bot init failed", "error", err)
		return false
	}

	caption := report.Generate(day, report.FormatTelegram, report.Options{UserName: s.UserName})

	photo, ok := newPhoto(chatID, chartPath)
	if !ok {
		t.log.Warnw("invalid telegram chat id", "chat_id", chatID)
		return false
	}
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML

	if _, err := bot.Send(photo); err != nil {
		t.log.Warnw("telegram send failed", "date", day.Date, "error", err)
		return false
	}

	t.log.Infow("telegram report delivered", "date", day.Date)
	return true
}

// newPhoto builds a photo config for either a numeric chat ID or an
// @channel username.
func newPhoto(chatID, path string) (tgbotapi.PhotoConfig, bool) {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.NewPhoto(id, tgbotapi.FilePath(path)), true
	}
	if strings.HasPrefix(chatID, "@") {
		return tgbotapi.NewPhotoToChannel(chatID, tgbotapi.FilePath(path)), true
	}
	return tgbotapi.PhotoConfig{}, false
}
