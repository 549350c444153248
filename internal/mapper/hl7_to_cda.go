// Package mapper assembles clinical documents from parsed HL7 v2 messages.
package mapper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
)

// Error codes carried by MapError
const (
	CodeNullInput        = "NULL_INPUT"
	CodeInvalidMessage   = "INVALID_MESSAGE"
	CodeMissingSegment   = "MISSING_SEGMENT"
	CodeInvalidTimestamp = "INVALID_TIMESTAMP"
	CodeUnknownType      = "UNKNOWN_DOCUMENT_TYPE"
)

// MapError is a failure that prevents a document from being assembled at
// all. Gaps that still leave a document are reported by validation instead.
type MapError struct {
	Field   string
	Code    string
	Message string
	Cause   error
}

func (e *MapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *MapError) Unwrap() error {
	return e.Cause
}

// Options tune how a message is placed into a document set
type Options struct {
	// Version overrides the default version 1
	Version int
	// SetID places the document in an existing set
	SetID *common.Identifier
	// Parents are appended as parent document references
	Parents []*common.ParentDocument
	// EarliestDateForFiltering and LatestDateForFiltering bound generated views
	EarliestDateForFiltering time.Time
	LatestDateForFiltering   time.Time
	// IdentifierRoot is the OID under which local item numbers are issued.
	// Items get a random UUID identifier when it is empty.
	IdentifierRoot string
}

// MapResult contains the assembled document and the segments that had no
// place in the requested variant
type MapResult struct {
	Document  *cda.AnyDocument
	MessageID string
	Skipped   []string
}

// HL7ToCDAMapper maps parsed HL7 v2 messages onto document variants. It
// writes only through the capabilities the variant's contracts expose.
type HL7ToCDAMapper struct {
	Options Options
}

// NewHL7ToCDAMapper creates a mapper with the given options
func NewHL7ToCDAMapper(opts Options) *HL7ToCDAMapper {
	return &HL7ToCDAMapper{Options: opts}
}

// Map builds a document of type dt from msg. Missing MSH or PID segments and
// malformed timestamps are hard failures; everything else is left for
// validation to report.
func (m *HL7ToCDAMapper) Map(msg *hl7v2.Message, dt cda.DocumentType) (*MapResult, error) {
	if msg == nil {
		return nil, &MapError{Field: "Message", Code: CodeNullInput, Message: "message is required"}
	}
	if err := msg.Check(); err != nil {
		code := CodeInvalidMessage
		if errors.Is(err, hl7v2.ErrMissingMSH) {
			code = CodeMissingSegment
		}
		return nil, &MapError{Field: "MSH", Code: code, Message: "message cannot be mapped", Cause: err}
	}
	doc, err := cda.New(dt)
	if err != nil {
		return nil, &MapError{Field: "DocumentType", Code: CodeUnknownType, Message: "unsupported document type", Cause: err}
	}

	b := &builder{opts: m.Options, msg: msg, doc: doc}
	if err := b.build(); err != nil {
		return nil, err
	}
	return &MapResult{Document: doc, MessageID: msg.ControlID(), Skipped: b.skipped}, nil
}

// builder carries the state of one mapping run
type builder struct {
	opts    Options
	msg     *hl7v2.Message
	doc     *cda.AnyDocument
	skipped []string

	authoredAt time.Time
	author     *common.PartyRole
	referral   *cda.ReferralDetail
	notes      []string
	bodyMapped bool
}

func (b *builder) build() error {
	if err := b.mapHeader(); err != nil {
		return err
	}
	if err := b.mapSubject(); err != nil {
		return err
	}
	if err := b.mapEncounter(); err != nil {
		return err
	}
	if err := b.mapParticipants(); err != nil {
		return err
	}
	if err := b.mapBody(); err != nil {
		return err
	}
	b.placeNotes()
	return nil
}

func (b *builder) skip(segment string, i int, reason string) {
	b.skipped = append(b.skipped, fmt.Sprintf("%s[%d]: %s", segment, i, reason))
}

func (b *builder) notPart(segment string, i int) {
	b.skip(segment, i, "not part of a "+b.doc.Type().Title()+" document")
}

// timestamp parses an optional DTM field; an empty value yields the zero time
func timestamp(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := hl7v2.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, &MapError{Field: field, Code: CodeInvalidTimestamp, Message: "malformed timestamp", Cause: err}
	}
	return t, nil
}

// mapHeader maps MSH and TXA onto document identity, authoring time,
// custodian, legal authenticator and authoring device
func (b *builder) mapHeader() error {
	ctx := b.doc.Context
	msh := b.msg.Segment("MSH")

	at, err := timestamp("MSH-7", msh.Get(7))
	if err != nil {
		return err
	}
	if at.IsZero() {
		return &MapError{Field: "MSH-7", Code: CodeInvalidTimestamp, Message: "message date/time is required"}
	}
	b.authoredAt = at

	txa := b.msg.Segment("TXA")
	if txa != nil {
		activity, err := timestamp("TXA-4", txa.Get(4))
		if err != nil {
			return err
		}
		if !activity.IsZero() {
			b.authoredAt = activity
		}
		if id := entityIdentifier(txa.Field(12)); id != nil {
			ctx.SetDocumentID(id)
		}
	}
	ctx.SetDateTimeAuthored(b.authoredAt)

	if b.opts.SetID != nil {
		ctx.SetDocumentSetID(b.opts.SetID)
	}
	if b.opts.Version > 0 {
		ctx.SetVersion(b.opts.Version)
	}
	for _, p := range b.opts.Parents {
		ctx.AddParentDocument(p)
	}

	if c, ok := ctx.(cda.CustodianCapability); ok {
		if org := facility(msh.Field(4)); org != nil {
			c.SetCustodian(org)
		}
	}
	if d, ok := ctx.(cda.DeviceAuthorCapability); ok {
		d.SetAuthoringDevice(application(msh.Field(3)))
	}
	if f, ok := ctx.(cda.FilteringCapability); ok {
		f.SetEarliestDateForFiltering(b.opts.EarliestDateForFiltering)
		f.SetLatestDateForFiltering(b.opts.LatestDateForFiltering)
	}

	if txa != nil {
		if auth := person(txa.Field(10), ""); auth != nil {
			if la, ok := ctx.(cda.LegalAuthenticatorCapability); ok {
				auth.Time = b.authoredAt
				la.SetLegalAuthenticator(auth)
			} else {
				b.skip("TXA", 0, "legal authenticator is not part of a "+b.doc.Type().Title()+" document")
			}
		}
	}
	return nil
}

func (b *builder) mapSubject() error {
	pid := b.msg.Segment("PID")
	if pid == nil {
		return &MapError{Field: "PID", Code: CodeMissingSegment, Message: "patient identification is required"}
	}
	subject, err := subjectOfCare(pid)
	if err != nil {
		return err
	}
	if s, ok := b.doc.Context.(cda.SubjectCapability); ok {
		s.SetSubjectOfCare(subject)
	}
	return nil
}

func (b *builder) mapEncounter() error {
	pv1 := b.msg.Segment("PV1")
	if pv1 == nil {
		return nil
	}
	start, err := timestamp("PV1-44", pv1.Get(44))
	if err != nil {
		return err
	}
	end, err := timestamp("PV1-45", pv1.Get(45))
	if err != nil {
		return err
	}
	if start.IsZero() && end.IsZero() {
		return nil
	}
	if e, ok := b.doc.Context.(cda.EncounterCapability); ok {
		e.SetEncounterPeriod(common.NewInterval(start, end))
		return nil
	}
	b.notPart("PV1", 0)
	return nil
}
