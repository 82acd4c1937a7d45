package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"ward-rounds/internal/config"
	"ward-rounds/internal/models"
)

// OverdueNotifier is told about tasks that have just crossed their deadline
type OverdueNotifier interface {
	NotifyOverdue(ctx context.Context, tasks []models.Task) error
}

type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyOverdue(_ context.Context, tasks []models.Task) error {
	for _, t := range tasks {
		n.logger.Warn().
			Uint("task_id", t.ID).
			Uint("patient_id", t.PatientID).
			Str("responsible", t.Responsible).
			Time("deadline", t.Deadline).
			Msg("task overdue")
	}
	return nil
}

// EmailNotifier sends one digest per sweep to the configured ward address.
type EmailNotifier struct {
	from string
	to   string
	loc  *time.Location
	send func(*gomail.Message) error
}

func NewEmailNotifier(cfg config.SMTPConfig, loc *time.Location) *EmailNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailNotifier{
		from: cfg.From,
		to:   cfg.NotifyTo,
		loc:  loc,
		send: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (n *EmailNotifier) NotifyOverdue(_ context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("[Ronda] %d tarefa(s) fora do prazo", len(tasks)))
	m.SetBody("text/html", n.digest(tasks))

	if err := n.send(m); err != nil {
		return fmt.Errorf("failed to send overdue digest: %w", err)
	}
	return nil
}

func (n *EmailNotifier) digest(tasks []models.Task) string {
	var b strings.Builder
	b.WriteString("<p>As seguintes tarefas passaram do prazo:</p><ul>")
	for _, t := range tasks {
		fmt.Fprintf(&b, "<li>Paciente #%d: %s (responsável: %s, prazo %s)</li>",
			t.PatientID,
			html.EscapeString(t.Description),
			html.EscapeString(t.Responsible),
			t.Deadline.In(n.loc).Format("02/01/2006 15:04"))
	}
	b.WriteString("</ul>")
	return b.String()
}

// NewNotifier picks e-mail delivery when SMTP is configured and log lines otherwise
func NewNotifier(cfg config.SMTPConfig, loc *time.Location, logger zerolog.Logger) OverdueNotifier {
	if cfg.Enabled() {
		return NewEmailNotifier(cfg, loc)
	}
	return NewLogNotifier(logger)
}
