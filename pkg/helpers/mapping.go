package helpers

import (
	"strings"

	"github.com/Widedbounou/SK-B/pkg/mailer"
	mailtpl "github.com/Widedbounou/SK-B/pkg/mailer/templates"
)

// SubjectFor picks the subject line of a templated job.
func SubjectFor(job mailer.EmailJob) string {
	switch strings.ToLower(job.Template) {
	case mailtpl.VerifyEmail:
		return "Confirm your Soukoni account"
	case mailtpl.Welcome:
		return "Welcome to Soukoni"
	default:
		return "Soukoni notification"
	}
}

// EnsureRecipient copies the job recipient into the template data when missing.
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"].(string); !ok || v == "" {
		job.Data["Email"] = job.To
	}
}
