package report

import (
	"encoding/json"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/google/uuid"
)

// EventType represents the type of validation event
type EventType string

const (
	EventDocumentAccepted EventType = "DocumentAccepted"
	EventDocumentRejected EventType = "DocumentRejected"
	EventDocumentFailed   EventType = "DocumentFailed"
)

// Event is the envelope published for every processed build request
type Event struct {
	ID            string           `json:"id"`
	DocumentID    string           `json:"document_id,omitempty"`
	DocumentType  cda.DocumentType `json:"document_type"`
	EventType     EventType        `json:"event_type"`
	EventData     json.RawMessage  `json:"event_data"`
	Timestamp     time.Time        `json:"timestamp"`
	CorrelationID string           `json:"correlation_id,omitempty"`
}

// FailureData describes a request that could not be assembled into a document
type FailureData struct {
	MessageID string `json:"message_id,omitempty"`
	Field     string `json:"field,omitempty"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
}

// NewEvent wraps a report as an accepted or rejected event
func NewEvent(r *Report) (*Event, error) {
	eventType := EventDocumentRejected
	if r.Valid {
		eventType = EventDocumentAccepted
	}
	e, err := newEvent(r.DocumentType, eventType, r)
	if err != nil {
		return nil, err
	}
	e.DocumentID = r.DocumentID
	return e, nil
}

// NewFailureEvent reports a request that never produced a document
func NewFailureEvent(dt cda.DocumentType, data FailureData) (*Event, error) {
	return newEvent(dt, EventDocumentFailed, data)
}

func newEvent(dt cda.DocumentType, eventType EventType, data any) (*Event, error) {
	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:           uuid.New().String(),
		DocumentType: dt,
		EventType:    eventType,
		EventData:    eventData,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// WithCorrelationID sets the id that ties the event to its request
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// Report decodes the report carried by an accepted or rejected event
func (e *Event) Report() (*Report, error) {
	var r Report
	if err := json.Unmarshal(e.EventData, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
