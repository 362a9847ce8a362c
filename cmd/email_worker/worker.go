package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/mailer"
	mailtpl "github.com/Widedbounou/SK-B/pkg/mailer/templates"
)

type outcome int

const (
	outcomeAck outcome = iota
	// outcomeDrop rejects a message that can never succeed.
	outcomeDrop
	// outcomeRetry requeues after a delivery failure.
	outcomeRetry
)

const sendTimeout = 15 * time.Second

type worker struct {
	Sender mailer.Sender
	Logger *logrus.Logger
}

// handle decodes, renders and sends one queued email job.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.Logger, "bad message", err, nil)
		return outcomeDrop
	}
	if err := job.Validate(); err != nil {
		helpers.LogError(w.Logger, "undeliverable message", err, logrus.Fields{"template": job.Template})
		return outcomeDrop
	}
	helpers.EnsureRecipient(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogError(w.Logger, "render failed", err, logrus.Fields{"template": job.Template})
			return outcomeDrop
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		subject = helpers.SubjectFor(job)
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.Logger, "send failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		return outcomeRetry
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return outcomeAck
}
