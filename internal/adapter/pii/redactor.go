package pii

import (
	"encoding/json"
	"log/slog"

	"github.com/avelten/logscope/internal/domain"
)

const RedactedPlaceholder = "[REDACTED]"

// Redactor masks sensitive context fields before entries leave the terminal,
// e.g. when a filtered view is exported to disk.
type Redactor struct {
	fieldsToRedact map[string]struct{}
	logger         *slog.Logger
}

// NewRedactor creates a Redactor for the given set of context field names.
func NewRedactor(fields []string, logger *slog.Logger) *Redactor {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		fieldSet[field] = struct{}{}
	}
	return &Redactor{
		fieldsToRedact: fieldSet,
		logger:         logger,
	}
}

// Redact replaces configured fields in the entry's context with a placeholder,
// modifying the entry in place. It returns an error if JSON processing fails.
func (r *Redactor) Redact(entry *domain.LogEntry) error {
	if len(r.fieldsToRedact) == 0 || len(entry.Context) == 0 {
		return nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(entry.Context, &fields); err != nil {
		r.logger.Warn("failed to unmarshal entry context for redaction", "error", err, "line", entry.LineNumber)
		return err
	}

	redacted := false
	for field := range r.fieldsToRedact {
		if _, ok := fields[field]; ok {
			fields[field] = RedactedPlaceholder
			redacted = true
		}
	}

	if redacted {
		modified, err := json.Marshal(fields)
		if err != nil {
			r.logger.Error("failed to marshal redacted context", "error", err, "line", entry.LineNumber)
			return err
		}
		entry.Context = modified
	}

	return nil
}
