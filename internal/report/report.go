// Package report holds validation reports and the events that carry them.
package report

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/fhir/r5"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
	"github.com/google/uuid"
)

// Report is the outcome of validating one document
type Report struct {
	ID           string               `json:"id"`
	DocumentID   string               `json:"document_id"`
	DocumentType cda.DocumentType     `json:"document_type"`
	MessageID    string               `json:"message_id,omitempty"`
	Valid        bool                 `json:"valid"`
	Violations   []validation.Message `json:"violations"`
	Skipped      []string             `json:"skipped,omitempty"`
	ValidatedAt  time.Time            `json:"validated_at"`
}

// New creates a report for doc. A nil violation list is stored as empty so
// that it encodes as [].
func New(doc *cda.AnyDocument, msgs []validation.Message, validatedAt time.Time) *Report {
	if msgs == nil {
		msgs = []validation.Message{}
	}
	return &Report{
		ID:           uuid.New().String(),
		DocumentID:   doc.Context.DocumentID().String(),
		DocumentType: doc.Type(),
		Valid:        len(msgs) == 0,
		Violations:   msgs,
		ValidatedAt:  validatedAt.UTC(),
	}
}

// CountByKind returns the number of violations of each kind
func (r *Report) CountByKind() map[validation.Kind]int {
	counts := make(map[validation.Kind]int)
	for _, m := range r.Violations {
		counts[m.Kind]++
	}
	return counts
}

// Outcome renders the report as a FHIR OperationOutcome
func (r *Report) Outcome() *r5.OperationOutcome {
	return r5.NewValidationOutcome(r.DocumentType.Code(), r.Violations, r.ValidatedAt)
}
