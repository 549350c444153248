// Package validation provides the violation accumulator shared by every document
// entity. Checks never stop at the first failure: each one appends a path-qualified
// message and reports whether it passed.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNilValidator is the panic value raised when a check is invoked without a sink.
var ErrNilValidator = errors.New("validation: nil validator")

// Unbounded is the max value accepted by CheckRange for collections without an upper limit
const Unbounded = -1

// Kind classifies a violation
type Kind string

const (
	KindRequired     Kind = "required"
	KindRange        Kind = "range"
	KindChoice       Kind = "choice"
	KindFormat       Kind = "format"
	KindCodeSystem   Kind = "code-system"
	KindBusinessRule Kind = "business-rule"
	KindInvalid      Kind = "invalid"
)

// Message is a single violation
type Message struct {
	Path  string `json:"path"`
	Value string `json:"value,omitempty"`
	Text  string `json:"message"`
	Kind  Kind   `json:"kind"`
}

func (m Message) String() string {
	if m.Value != "" {
		return fmt.Sprintf("%s: %s (value %q)", m.Path, m.Text, m.Value)
	}
	return m.Path + ": " + m.Text
}

// Choice is one named alternative of a choice group
type Choice struct {
	Name  string
	Value any
}

// Validator accumulates violations for one validation run.
// A Validator is not safe for concurrent use; every run owns its own.
type Validator struct {
	messages []Message
}

// New creates an empty validator
func New() *Validator {
	return &Validator{}
}

// Messages returns a copy of the accumulated violations in insertion order
func (v *Validator) Messages() []Message {
	v.mustBeUsable()
	out := make([]Message, len(v.messages))
	copy(out, v.messages)
	return out
}

// Len returns the number of accumulated violations
func (v *Validator) Len() int {
	v.mustBeUsable()
	return len(v.messages)
}

// Valid reports whether no violation has been recorded
func (v *Validator) Valid() bool {
	return v.Len() == 0
}

// HasPath reports whether a violation was recorded for path
func (v *Validator) HasPath(path string) bool {
	v.mustBeUsable()
	for _, m := range v.messages {
		if m.Path == path {
			return true
		}
	}
	return false
}

// Merge appends the violations of other
func (v *Validator) Merge(other *Validator) {
	v.mustBeUsable()
	if other == nil {
		return
	}
	v.messages = append(v.messages, other.messages...)
}

// AddMessage records a business-rule violation
func (v *Validator) AddMessage(path, value, text string) {
	v.Add(KindBusinessRule, path, value, text)
}

// Add records a violation of the given kind
func (v *Validator) Add(kind Kind, path, value, text string) {
	v.mustBeUsable()
	v.messages = append(v.messages, Message{Path: path, Value: value, Text: text, Kind: kind})
}

// RequireNonEmpty records a violation when value is missing.
// See IsEmpty for what counts as missing.
func (v *Validator) RequireNonEmpty(path string, value any) bool {
	v.mustBeUsable()
	if IsEmpty(value) {
		v.Add(KindRequired, path, "", "Field "+lastSegment(path)+" must be provided")
		return false
	}
	return true
}

// CheckRange records a violation when count is outside [min, max].
// Pass Unbounded as max for collections without an upper limit.
func (v *Validator) CheckRange(path string, count, min, max int) bool {
	v.mustBeUsable()
	if count >= min && (max == Unbounded || count <= max) {
		return true
	}
	var text string
	switch {
	case max == Unbounded:
		text = fmt.Sprintf("Field %s must have at least %d entries", lastSegment(path), min)
	case min == max:
		text = fmt.Sprintf("Field %s must have exactly %d entries", lastSegment(path), min)
	default:
		text = fmt.Sprintf("Field %s must have between %d and %d entries", lastSegment(path), min, max)
	}
	v.Add(KindRange, path, strconv.Itoa(count), text)
	return false
}

// CheckChoice records a single violation unless exactly one choice is populated
func (v *Validator) CheckChoice(path string, choices ...Choice) bool {
	v.mustBeUsable()
	if countPopulated(choices) == 1 {
		return true
	}
	v.Add(KindChoice, path, "", "Choose exactly one of "+choiceNames(choices))
	return false
}

// CheckAtMostOne records a single violation when more than one choice is populated
func (v *Validator) CheckAtMostOne(path string, choices ...Choice) bool {
	v.mustBeUsable()
	if countPopulated(choices) <= 1 {
		return true
	}
	v.Add(KindChoice, path, "", "Only one of "+choiceNames(choices)+" may be provided")
	return false
}

// CheckPattern records a format violation when a non-empty value does not match re
func (v *Validator) CheckPattern(path, value string, re *regexp.Regexp, text string) bool {
	v.mustBeUsable()
	if value == "" || re.MatchString(value) {
		return true
	}
	v.Add(KindFormat, path, value, text)
	return false
}

// CheckForbiddenSubstring records a format violation when value contains substr
func (v *Validator) CheckForbiddenSubstring(path, value, substr string) bool {
	v.mustBeUsable()
	if !strings.Contains(value, substr) {
		return true
	}
	v.Add(KindFormat, path, value, fmt.Sprintf("Field %s must not contain %q", lastSegment(path), substr))
	return false
}

// CheckOrder records a violation when both bounds are set and start is after end
func (v *Validator) CheckOrder(path string, start, end time.Time) bool {
	v.mustBeUsable()
	if start.IsZero() || end.IsZero() || !start.After(end) {
		return true
	}
	v.Add(KindRange, path, "", "Start of "+lastSegment(path)+" must not be after its end")
	return false
}

func (v *Validator) mustBeUsable() {
	if v == nil {
		panic(ErrNilValidator)
	}
}

// IsEmpty reports whether value counts as missing: nil, a nil pointer, a blank or
// whitespace-only string, an empty slice, map or array, or a zero time.
// Numbers and booleans are never empty.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch t := value.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t == nil || t.IsZero()
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return true
		}
		if rv.Elem().Kind() == reflect.String {
			return strings.TrimSpace(rv.Elem().String()) == ""
		}
		return false
	case reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Array:
		return rv.Len() == 0
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	}
	return false
}

func countPopulated(choices []Choice) int {
	n := 0
	for _, c := range choices {
		if !IsEmpty(c.Value) {
			n++
		}
	}
	return n
}

func choiceNames(choices []Choice) string {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = c.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
