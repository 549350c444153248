package cda

import (
	"fmt"

	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Document pairs the context and content views of one variant. The type
// parameters are the variant's contracts; AnyDocument holds the erased form
// used when the variant is only known at run time.
type Document[C ContextView, B ContentView] struct {
	Context C
	Content B
}

// AnyDocument is a document whose variant is chosen at run time
type AnyDocument = Document[ContextView, ContentView]

// Type returns the variant the context was created for
func (d *Document[C, B]) Type() DocumentType {
	return d.Context.DocumentType()
}

// Validate appends the violations of both views to v
func (d *Document[C, B]) Validate(path string, v *validation.Validator) {
	d.Context.Validate(path, v)
	d.Content.Validate(path, v)
}

// Erase drops the variant contracts, keeping the same underlying views
func (d *Document[C, B]) Erase() *AnyDocument {
	return &AnyDocument{Context: d.Context, Content: d.Content}
}

// New creates an empty document of the given variant
func New(t DocumentType) (*AnyDocument, error) {
	f, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, string(t))
	}
	return f(), nil
}

// Check validates d from the root path and returns every violation found.
// An error is returned only when d cannot be validated at all.
func Check[C ContextView, B ContentView](d *Document[C, B]) ([]validation.Message, error) {
	if d == nil || any(d.Context) == nil || any(d.Content) == nil {
		return nil, ErrNilDocument
	}
	ct, bt := d.Context.DocumentType(), d.Content.DocumentType()
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, string(ct))
	}
	if ct != bt {
		return nil, fmt.Errorf("%w: context is %s, content is %s", ErrDocumentMismatch, ct, bt)
	}

	v := validation.New()
	d.Validate("", v)
	return v.Messages(), nil
}
