package channel

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/nightpulse/nightpulse/internal/report"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

// EmailSender delivers reports over SMTP with the chart attached as a PNG.
type EmailSender struct {
	charts   ChartGenerator
	password func() string
	log      *zap.SugaredLogger
}

// NewEmailSender creates an email sender. The SMTP password is resolved
// lazily at send time.
func NewEmailSender(charts ChartGenerator, password func() string, log *zap.SugaredLogger) *EmailSender {
	return &EmailSender{charts: charts, password: password, log: log}
}

// Channel implements Sender.
func (e *EmailSender) Channel() sleep.Channel {
	return sleep.ChannelEmail
}

// Enabled implements Sender.
func (e *EmailSender) Enabled(s Settings) bool {
	return s.Channels.Email.Enabled
}

// Send implements Sender. Missing recipients or SMTP host fail immediately,
// before any chart is generated.
func (e *EmailSender) Send(ctx context.Context, day sleep.Day, s Settings) bool {
	cfg := s.Channels.Email
	recipients := cfg.RecipientList()
	if len(recipients) == 0 || cfg.SMTPHost == "" {
		e.log.Warnw("email not configured", "date", day.Date)
		return false
	}

	chartPath, err := e.charts.Generate(day)
	if err != nil {
		e.log.Warnw("chart generation failed, will retry later", "date", day.Date, "error", err)
		return false
	}
	defer e.charts.Remove(chartPath)

	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}

	opts := report.Options{UserName: s.UserName}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", report.EmailSubject(day, s.UserName))
	m.SetBody("text/plain", report.Generate(day, report.FormatPlain, opts))
	m.AddAlternative("text/html", report.Generate(day, report.FormatEmailHTML, opts))
	m.Attach(chartPath)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, e.password())
	if err := d.DialAndSend(m); err != nil {
		e.log.Warnw("email send failed", "date", day.Date, "error", err)
		return false
	}

	e.log.Infow("email report delivered", "date", day.Date, "recipients", len(recipients))
	return true
}
