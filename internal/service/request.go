package service

import (
	"encoding/json"
	"fmt"

	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
)

// BuildRequest is the wire form of a Request as carried on the build
// request topic
type BuildRequest struct {
	DocumentType  string            `json:"document_type"`
	Message       *hl7v2.Message    `json:"message"`
	Options       map[string]string `json:"options,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// DecodeBuildRequest parses a build request. Errors mean the payload can
// never be processed.
func DecodeBuildRequest(data []byte) (Request, error) {
	var br BuildRequest
	if err := json.Unmarshal(data, &br); err != nil {
		return Request{}, fmt.Errorf("decode build request: %w", err)
	}
	if br.DocumentType == "" {
		return Request{}, fmt.Errorf("decode build request: document_type is required")
	}
	if err := br.Message.Check(); err != nil {
		return Request{}, fmt.Errorf("decode build request: %w", err)
	}
	opts, err := ParseOptions(func(k string) string { return br.Options[k] })
	if err != nil {
		return Request{}, fmt.Errorf("decode build request: %w", err)
	}
	return Request{
		DocumentType:  br.DocumentType,
		Message:       br.Message,
		Options:       opts,
		CorrelationID: br.CorrelationID,
	}, nil
}
