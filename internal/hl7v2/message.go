// Package hl7v2 holds an HL7 v2 message that has already been split into
// segments, fields, repetitions and components by an upstream parser.
package hl7v2

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	ErrNoSegments = errors.New("hl7v2: message has no segments")
	ErrMissingMSH = errors.New("hl7v2: first segment must be MSH")
)

// Message is a parsed HL7 v2 message
type Message struct {
	Segments []Segment `json:"segments"`
}

// Segment is one segment. Fields[0] is field 1; for MSH that is the field
// separator, so Field(n) is always MSH-n.
type Segment struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Field holds the repetitions of one field, each a list of components
type Field struct {
	Repeats [][]string
}

// UnmarshalJSON accepts a plain string, a list of components, or a list of
// repetitions of components.
func (f *Field) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Repeats = [][]string{{s}}
		return nil
	}
	var comps []string
	if err := json.Unmarshal(data, &comps); err == nil {
		f.Repeats = [][]string{comps}
		return nil
	}
	var reps [][]string
	if err := json.Unmarshal(data, &reps); err != nil {
		return fmt.Errorf("hl7v2: field must be a string or a list of components: %w", err)
	}
	f.Repeats = reps
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	if f.Repeats == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(f.Repeats)
}

// Component returns component i (1-based) of the first repetition
func (f Field) Component(i int) string {
	if len(f.Repeats) == 0 {
		return ""
	}
	return component(f.Repeats[0], i)
}

// Value returns the first component of the first repetition
func (f Field) Value() string {
	return f.Component(1)
}

// Empty reports whether no component carries a value
func (f Field) Empty() bool {
	for _, rep := range f.Repeats {
		for _, c := range rep {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
	}
	return true
}

func component(comps []string, i int) string {
	if i < 1 || i > len(comps) {
		return ""
	}
	return strings.TrimSpace(comps[i-1])
}

// Decode reads a JSON encoded message and checks that it starts with MSH
func Decode(r io.Reader) (*Message, error) {
	var m Message
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("hl7v2: decode message: %w", err)
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Check reports a message that cannot be mapped at all
func (m *Message) Check() error {
	if m == nil || len(m.Segments) == 0 {
		return ErrNoSegments
	}
	if m.Segments[0].Name != "MSH" {
		return fmt.Errorf("%w, got %q", ErrMissingMSH, m.Segments[0].Name)
	}
	return nil
}

// Segment returns the first segment with the given name, or nil
func (m *Message) Segment(name string) *Segment {
	for i := range m.Segments {
		if m.Segments[i].Name == name {
			return &m.Segments[i]
		}
	}
	return nil
}

// All returns every segment with the given name in message order
func (m *Message) All(name string) []*Segment {
	var out []*Segment
	for i := range m.Segments {
		if m.Segments[i].Name == name {
			out = append(out, &m.Segments[i])
		}
	}
	return out
}

// Type returns MSH-9 as message code^trigger event, e.g. "REF^I12"
func (m *Message) Type() string {
	msh := m.Segment("MSH")
	if msh == nil {
		return ""
	}
	code, event := msh.Component(9, 1), msh.Component(9, 2)
	if event == "" {
		return code
	}
	return code + "^" + event
}

// ControlID returns MSH-10
func (m *Message) ControlID() string {
	if msh := m.Segment("MSH"); msh != nil {
		return msh.Get(10)
	}
	return ""
}

// Timestamp returns MSH-7
func (m *Message) Timestamp() (time.Time, error) {
	msh := m.Segment("MSH")
	if msh == nil {
		return time.Time{}, ErrMissingMSH
	}
	return ParseTimestamp(msh.Get(7))
}

// Field returns field i (1-based); missing fields are empty
func (s *Segment) Field(i int) Field {
	if s == nil || i < 1 || i > len(s.Fields) {
		return Field{}
	}
	return s.Fields[i-1]
}

// Get returns the first component of field i
func (s *Segment) Get(i int) string {
	return s.Field(i).Value()
}

// Component returns component c of field i
func (s *Segment) Component(i, c int) string {
	return s.Field(i).Component(c)
}

// Repetitions returns every repetition of field i
func (s *Segment) Repetitions(i int) [][]string {
	return s.Field(i).Repeats
}

// Subcomponent picks component c from a repetition returned by Repetitions
func Subcomponent(rep []string, c int) string {
	return component(rep, c)
}

var timestampLayouts = []struct {
	digits int
	layout string
}{
	{14, "20060102150405"},
	{12, "200601021504"},
	{10, "2006010215"},
	{8, "20060102"},
	{6, "200601"},
	{4, "2006"},
}

// ParseTimestamp parses an HL7 DTM value, YYYY[MM[DD[HH[MM[SS[.S+]]]]]][+/-ZZZZ].
// Values without an offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("hl7v2: empty timestamp")
	}

	loc := time.UTC
	if i := strings.IndexAny(s, "+-"); i > 0 {
		zone := s[i:]
		off, err := time.Parse("-0700", zone)
		if err != nil {
			return time.Time{}, fmt.Errorf("hl7v2: invalid timestamp offset %q", zone)
		}
		_, secs := off.Zone()
		loc = time.FixedZone(zone, secs)
		s = s[:i]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}

	for _, l := range timestampLayouts {
		if len(s) == l.digits {
			t, err := time.ParseInLocation(l.layout, s, loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("hl7v2: invalid timestamp %q: %w", s, err)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("hl7v2: unrecognized timestamp format %q", s)
}
