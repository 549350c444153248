package common

import (
	"strconv"

	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// MaxParentDocuments is the largest number of parents a document may declare
const MaxParentDocuments = 2

// ParentDocument references a document this one transforms or replaces
type ParentDocument struct {
	DocumentID    *Identifier            `json:"documentId,omitempty"`
	SetID         *Identifier            `json:"setId,omitempty"`
	DocumentType  *CodedTerm             `json:"documentType,omitempty"`
	VersionNumber int                    `json:"versionNumber"`
	RelationType  codes.RelationshipType `json:"relationType"`
}

// Lineage is the identity of the child document checked against its parents
type Lineage struct {
	SetID   *Identifier
	Version int
}

// Validate checks the reference on its own, without the child document
func (p *ParentDocument) Validate(path string, v *validation.Validator) {
	docPath := validation.Field(path, "DocumentID")
	if v.RequireNonEmpty(docPath, p.DocumentID) {
		p.DocumentID.Validate(docPath, v)
	}
	setPath := validation.Field(path, "SetID")
	if v.RequireNonEmpty(setPath, p.SetID) {
		p.SetID.Validate(setPath, v)
	}
	if p.DocumentType != nil {
		p.DocumentType.Validate(validation.Field(path, "DocumentType"), v)
	}
	if p.VersionNumber < 1 {
		v.Add(validation.KindRange, validation.Field(path, "VersionNumber"), strconv.Itoa(p.VersionNumber),
			"VersionNumber must be a positive integer")
	}
	relPath := validation.Field(path, "RelationType")
	if v.RequireNonEmpty(relPath, string(p.RelationType)) && !p.RelationType.Valid() {
		v.Add(validation.KindInvalid, relPath, string(p.RelationType), "RelationType must be XFRM or RPLC")
	}
}

// ValidateLineage checks parent references against the child document.
// One parent must be a transform; two parents must be one transform and one
// replace; more than two is never valid. A transform starts a new set, a
// replace stays in the parent's set with a higher version.
func ValidateLineage(path string, child Lineage, parents []*ParentDocument, v *validation.Validator) {
	if len(parents) == 0 {
		return
	}
	listPath := validation.Field(path, "ParentDocuments")

	var xfrm, rplc int
	for _, p := range parents {
		if p == nil {
			continue
		}
		switch p.RelationType {
		case codes.RelationshipTransform:
			xfrm++
		case codes.RelationshipReplace:
			rplc++
		}
	}
	switch {
	case len(parents) > MaxParentDocuments:
		v.CheckRange(listPath, len(parents), 0, MaxParentDocuments)
	case len(parents) == 1 && xfrm != 1:
		v.AddMessage(listPath, "", "A single parent document must have a transform (XFRM) relationship")
	case len(parents) == 2 && (xfrm != 1 || rplc != 1):
		v.AddMessage(listPath, "", "Two parent documents must comprise one transform (XFRM) and one replace (RPLC)")
	}

	for i, p := range parents {
		pPath := validation.Index(path, "ParentDocuments", i)
		if !v.RequireNonEmpty(pPath, p) {
			continue
		}
		p.Validate(pPath, v)
		if p.SetID == nil || child.SetID == nil {
			continue
		}
		switch p.RelationType {
		case codes.RelationshipTransform:
			if p.SetID.Equal(child.SetID) {
				v.AddMessage(validation.Field(pPath, "SetID"), p.SetID.String(),
					"A transformed document must have a different SetID from its parent")
			}
		case codes.RelationshipReplace:
			if !p.SetID.Equal(child.SetID) {
				v.AddMessage(validation.Field(pPath, "SetID"), p.SetID.String(),
					"A replacing document must have the same SetID as its parent")
			}
			if child.Version <= p.VersionNumber {
				v.AddMessage(validation.Field(pPath, "VersionNumber"), strconv.Itoa(p.VersionNumber),
					"A replacing document must have a higher version number than its parent")
			}
		}
	}
}
