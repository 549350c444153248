package cda

import (
	"strconv"
	"strings"
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Context is the document header shared by every variant. It implements
// every context contract; callers only ever see it through the contract of
// the variant it was created for.
type Context struct {
	docType DocumentType

	documentID       *common.Identifier
	setID            *common.Identifier
	version          int
	parents          []*common.ParentDocument
	dateTimeAuthored time.Time

	author                 *common.Author
	custodian              *common.PartyRole
	legalAuthenticator     *common.PartyRole
	subject                *common.SubjectOfCare
	recipients             []*common.PartyRole
	informants             []*common.PartyRole
	encounterPeriod        *common.Interval
	prescriberOrganisation *common.PartyRole
	dispenserOrganisation  *common.PartyRole
	earliestFilter         time.Time
	latestFilter           time.Time
}

// newContext assigns a fresh document and set identifier at version 1
func newContext(t DocumentType) *Context {
	return &Context{
		docType:    t,
		documentID: common.NewUUIDIdentifier(),
		setID:      common.NewUUIDIdentifier(),
		version:    1,
	}
}

func (c *Context) DocumentType() DocumentType                { return c.docType }
func (c *Context) DocumentID() *common.Identifier            { return c.documentID }
func (c *Context) SetDocumentID(id *common.Identifier)       { c.documentID = id }
func (c *Context) DocumentSetID() *common.Identifier         { return c.setID }
func (c *Context) SetDocumentSetID(id *common.Identifier)    { c.setID = id }
func (c *Context) Version() int                              { return c.version }
func (c *Context) SetVersion(n int)                          { c.version = n }
func (c *Context) ParentDocuments() []*common.ParentDocument { return c.parents }
func (c *Context) DateTimeAuthored() time.Time               { return c.dateTimeAuthored }
func (c *Context) SetDateTimeAuthored(t time.Time)           { c.dateTimeAuthored = t }

func (c *Context) AddParentDocument(p *common.ParentDocument) {
	c.parents = append(c.parents, p)
}

func (c *Context) Author() *common.Author     { return c.author }
func (c *Context) SetAuthor(a *common.Author) { c.author = a }

// Prescriber returns the author when it is a healthcare provider
func (c *Context) Prescriber() *common.PartyRole { return c.providerAuthor() }

// SetPrescriber stores r as the healthcare provider author
func (c *Context) SetPrescriber(r *common.PartyRole) { c.setProviderAuthor(r) }

// Dispenser returns the author when it is a healthcare provider
func (c *Context) Dispenser() *common.PartyRole { return c.providerAuthor() }

// SetDispenser stores r as the healthcare provider author
func (c *Context) SetDispenser(r *common.PartyRole) { c.setProviderAuthor(r) }

// AuthoringDevice returns the author when it is a device
func (c *Context) AuthoringDevice() *common.AuthoringDevice {
	if c.author == nil {
		return nil
	}
	return c.author.Device
}

// SetAuthoringDevice stores d as the author, replacing any other shape
func (c *Context) SetAuthoringDevice(d *common.AuthoringDevice) {
	if d == nil {
		c.author = nil
		return
	}
	c.author = &common.Author{Time: c.authorTime(), Device: d}
}

func (c *Context) providerAuthor() *common.PartyRole {
	if c.author == nil {
		return nil
	}
	return c.author.HealthcareProvider
}

func (c *Context) setProviderAuthor(r *common.PartyRole) {
	if r == nil {
		c.author = nil
		return
	}
	c.author = &common.Author{Time: c.authorTime(), HealthcareProvider: r}
}

// authorTime falls back to the authoring time so that renamed author views,
// which have no time of their own, still participate at a known time.
func (c *Context) authorTime() time.Time {
	if c.author != nil && !c.author.Time.IsZero() {
		return c.author.Time
	}
	return c.dateTimeAuthored
}

func (c *Context) Custodian() *common.PartyRole              { return c.custodian }
func (c *Context) SetCustodian(r *common.PartyRole)          { c.custodian = r }
func (c *Context) LegalAuthenticator() *common.PartyRole     { return c.legalAuthenticator }
func (c *Context) SetLegalAuthenticator(r *common.PartyRole) { c.legalAuthenticator = r }
func (c *Context) SubjectOfCare() *common.SubjectOfCare      { return c.subject }
func (c *Context) SetSubjectOfCare(s *common.SubjectOfCare)  { c.subject = s }
func (c *Context) Recipients() []*common.PartyRole           { return c.recipients }
func (c *Context) AddRecipient(r *common.PartyRole)          { c.recipients = append(c.recipients, r) }
func (c *Context) Informants() []*common.PartyRole           { return c.informants }
func (c *Context) AddInformant(r *common.PartyRole)          { c.informants = append(c.informants, r) }
func (c *Context) EncounterPeriod() *common.Interval         { return c.encounterPeriod }
func (c *Context) SetEncounterPeriod(i *common.Interval)     { c.encounterPeriod = i }

func (c *Context) PrescriberOrganisation() *common.PartyRole { return c.prescriberOrganisation }
func (c *Context) SetPrescriberOrganisation(r *common.PartyRole) {
	c.prescriberOrganisation = r
}
func (c *Context) DispenserOrganisation() *common.PartyRole { return c.dispenserOrganisation }
func (c *Context) SetDispenserOrganisation(r *common.PartyRole) {
	c.dispenserOrganisation = r
}

func (c *Context) EarliestDateForFiltering() time.Time     { return c.earliestFilter }
func (c *Context) SetEarliestDateForFiltering(t time.Time) { c.earliestFilter = t }
func (c *Context) LatestDateForFiltering() time.Time       { return c.latestFilter }
func (c *Context) SetLatestDateForFiltering(t time.Time)   { c.latestFilter = t }

// Validate checks the header against the rule table entry of its variant
func (c *Context) Validate(path string, v *validation.Validator) {
	r := mustRules(c.docType)

	idPath := validation.Field(path, "DocumentID")
	if v.RequireNonEmpty(idPath, c.documentID) {
		c.documentID.Validate(idPath, v)
	}
	setPath := validation.Field(path, "DocumentSetID")
	if v.RequireNonEmpty(setPath, c.setID) {
		c.setID.Validate(setPath, v)
	}
	if c.version < 1 {
		v.Add(validation.KindRange, validation.Field(path, "Version"), strconv.Itoa(c.version),
			"Version must be a positive integer")
	}
	v.RequireNonEmpty(validation.Field(path, "DateTimeAuthored"), c.dateTimeAuthored)

	authorPath := validation.Field(path, "Author")
	if v.RequireNonEmpty(authorPath, c.author) {
		c.author.Validate(authorPath, v, r.Author)
	}

	c.validateRole(path, "Custodian", c.custodian, r.Custodian, common.CustodianRequirements, v)
	c.validateRole(path, "LegalAuthenticator", c.legalAuthenticator, r.LegalAuthenticator,
		common.LegalAuthenticatorRequirements, v)
	c.validateRole(path, "PrescriberOrganisation", c.prescriberOrganisation, r.PrescriberOrganisation,
		common.CustodianRequirements, v)
	c.validateRole(path, "DispenserOrganisation", c.dispenserOrganisation, r.DispenserOrganisation,
		common.CustodianRequirements, v)

	subjectPath := validation.Field(path, "SubjectOfCare")
	if v.RequireNonEmpty(subjectPath, c.subject) {
		c.subject.ValidateOptional(subjectPath, v, r.Subject)
	}

	c.validateRoles(path, "Recipients", c.recipients, r.Recipients, common.RecipientRequirements, v)
	c.validateRoles(path, "Informants", c.informants, r.Informants, common.InformantRequirements, v)

	encPath := validation.Field(path, "EncounterPeriod")
	if c.checkRequirement(encPath, c.encounterPeriod, r.EncounterPeriod, v) && c.encounterPeriod != nil {
		c.encounterPeriod.Validate(encPath, v)
	}

	c.validateFiltering(path, r.FilteringDates, v)

	common.ValidateLineage(path, common.Lineage{SetID: c.setID, Version: c.version}, c.parents, v)
}

func (c *Context) validateRole(path, name string, role *common.PartyRole, req Requirement,
	rr common.RoleRequirements, v *validation.Validator) {
	rolePath := validation.Field(path, name)
	if c.checkRequirement(rolePath, role, req, v) && role != nil {
		role.Validate(rolePath, v, rr)
	}
}

func (c *Context) validateRoles(path, name string, roles []*common.PartyRole, req Requirement,
	rr common.RoleRequirements, v *validation.Validator) {
	listPath := validation.Field(path, name)
	switch req {
	case Required:
		if !v.CheckRange(listPath, len(roles), 1, validation.Unbounded) {
			return
		}
	case Forbidden:
		if len(roles) > 0 {
			c.forbidden(listPath, v)
		}
		return
	}
	for i, role := range roles {
		rolePath := validation.Index(path, name, i)
		if v.RequireNonEmpty(rolePath, role) {
			role.Validate(rolePath, v, rr)
		}
	}
}

func (c *Context) validateFiltering(path string, req Requirement, v *validation.Validator) {
	earliestPath := validation.Field(path, "EarliestDateForFiltering")
	latestPath := validation.Field(path, "LatestDateForFiltering")
	switch req {
	case Required:
		v.RequireNonEmpty(earliestPath, c.earliestFilter)
		v.RequireNonEmpty(latestPath, c.latestFilter)
	case Forbidden:
		if !c.earliestFilter.IsZero() || !c.latestFilter.IsZero() {
			c.forbidden(earliestPath, v)
		}
		return
	}
	if !c.earliestFilter.IsZero() && !c.latestFilter.IsZero() && c.earliestFilter.After(c.latestFilter) {
		v.Add(validation.KindRange, earliestPath, c.earliestFilter.Format(time.RFC3339),
			"EarliestDateForFiltering must not be after LatestDateForFiltering")
	}
}

// checkRequirement reports whether the value may be validated further
func (c *Context) checkRequirement(path string, value any, req Requirement, v *validation.Validator) bool {
	switch req {
	case Required:
		return v.RequireNonEmpty(path, value)
	case Forbidden:
		if !validation.IsEmpty(value) {
			c.forbidden(path, v)
		}
		return false
	}
	return true
}

func (c *Context) forbidden(path string, v *validation.Validator) {
	v.AddMessage(path, "", "Field "+lastSegment(path)+" is not part of a "+c.docType.Title()+" document")
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
