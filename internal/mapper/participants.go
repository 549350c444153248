package mapper

import (
	"strings"

	"github.com/drfirst/go-clinicaldoc/internal/cda"
	"github.com/drfirst/go-clinicaldoc/internal/cda/common"
	"github.com/drfirst/go-clinicaldoc/internal/codes"
	"github.com/drfirst/go-clinicaldoc/internal/hl7v2"
)

// MedicareCardRoot is the identifier root of Medicare card numbers
const MedicareCardRoot = "1.2.36.1.5001.1.0.7.1"

// HL7 table 0286 plus the ordering and dispensing roles used in ORC and RXD
var providerRoles = map[string]string{
	"RP": "Referring Provider",
	"PP": "Primary Care Provider",
	"CP": "Consulting Provider",
	"RT": "Referred to Provider",
	"OP": "Ordering Provider",
	"DP": "Dispensing Provider",
}

// HL7 table 0190
var addressPurposes = map[string]codes.AddressPurpose{
	"H": codes.AddressPurposeResidential,
	"B": codes.AddressPurposeBusiness,
	"O": codes.AddressPurposeBusiness,
	"M": codes.AddressPurposeMailing,
	"C": codes.AddressPurposeTemporary,
}

// HL7 table 0001 folded onto the Australian sex value set
var sexes = map[string]codes.Sex{
	"M": codes.SexMale,
	"F": codes.SexFemale,
	"O": codes.SexIntersex,
	"A": codes.SexIntersex,
	"U": codes.SexNotStated,
	"N": codes.SexNotStated,
}

func (b *builder) mapParticipants() error {
	ctx := b.doc.Context
	for i, prd := range b.msg.All("PRD") {
		role := prd.Component(1, 1)
		p := providerDetail(prd, role)
		if p == nil {
			continue
		}
		switch role {
		case "RT", "CP":
			if r, ok := ctx.(cda.RecipientsCapability); ok {
				r.AddRecipient(p)
			} else {
				b.skip("PRD", i, "recipients are not part of a "+b.doc.Type().Title()+" document")
			}
		default:
			if b.author == nil {
				b.author = p
			}
		}
	}

	orc := b.msg.Segment("ORC")
	if b.author == nil && orc != nil {
		b.author = person(orc.Field(12), "OP")
	}
	if obr := b.msg.Segment("OBR"); b.author == nil && obr != nil {
		b.author = person(obr.Field(16), "OP")
	}
	if rxd := b.msg.Segment("RXD"); b.author == nil && rxd != nil {
		b.author = person(rxd.Field(10), "DP")
	}
	b.setAuthor()

	msh := b.msg.Segment("MSH")
	if po, ok := ctx.(cda.PrescriberOrganisationCapability); ok {
		var org *common.PartyRole
		if orc != nil {
			org = orderingFacility(orc.Field(21))
		}
		if org == nil {
			org = facility(msh.Field(4))
		}
		if org != nil {
			po.SetPrescriberOrganisation(org)
		}
	}
	if do, ok := ctx.(cda.DispenserOrganisationCapability); ok {
		if org := facility(msh.Field(4)); org != nil {
			do.SetDispenserOrganisation(org)
		}
	}
	return nil
}

// setAuthor hands the provider to whichever author capability the variant has
func (b *builder) setAuthor() {
	if b.author == nil {
		return
	}
	switch c := b.doc.Context.(type) {
	case cda.AuthorCapability:
		a := common.NewProviderAuthor(b.author)
		a.Time = b.authoredAt
		c.SetAuthor(a)
	case cda.PrescriberCapability:
		c.SetPrescriber(b.author)
	case cda.DispenserCapability:
		c.SetDispenser(b.author)
	default:
		b.skip("PRD", 0, "a person author is not part of a "+b.doc.Type().Title()+" document")
	}
}

func providerDetail(prd *hl7v2.Segment, role string) *common.PartyRole {
	name := prd.Field(2)
	if name.Empty() {
		return nil
	}
	p := &common.Person{Names: []*common.PersonName{
		personName(name.Component(1), name.Component(2), name.Component(3), name.Component(5), name.Component(4)),
	}}
	party := common.NewPersonParty(p)
	for _, rep := range prd.Repetitions(7) {
		if id := healthcareID(hl7v2.Subcomponent(rep, 1)); id != nil {
			party.Identifiers = append(party.Identifiers, id)
		}
	}
	for _, rep := range prd.Repetitions(3) {
		if a := address(rep); a != nil {
			party.Addresses = append(party.Addresses, a)
		}
	}
	for _, rep := range prd.Repetitions(5) {
		if e := telecom(rep); e != nil {
			party.ElectronicCommunicationDetails = append(party.ElectronicCommunicationDetails, e)
		}
	}
	return common.NewPartyRole(providerRole(role), party)
}

// person maps an XCN: id^family^given^middle^suffix^prefix
func person(f hl7v2.Field, role string) *common.PartyRole {
	if f.Empty() {
		return nil
	}
	p := &common.Person{Names: []*common.PersonName{
		personName(f.Component(2), f.Component(3), f.Component(4), f.Component(6), f.Component(5)),
	}}
	party := common.NewPersonParty(p)
	if id := healthcareID(f.Component(1)); id != nil {
		party.Identifiers = []*common.Identifier{id}
	}
	return common.NewPartyRole(providerRole(role), party)
}

func personName(family, given, middle, prefix, suffix string) *common.PersonName {
	n := &common.PersonName{FamilyName: family}
	for _, g := range []string{given, middle} {
		if g != "" {
			n.GivenNames = append(n.GivenNames, g)
		}
	}
	if prefix != "" {
		n.Titles = []string{prefix}
	}
	if suffix != "" {
		n.Suffixes = []string{suffix}
	}
	return n
}

func providerRole(code string) *common.CodedTerm {
	if code == "" {
		return nil
	}
	if display, ok := providerRoles[code]; ok {
		return common.NewCodedTerm(code, display, codes.HL7ProviderRole)
	}
	return common.NewOriginalText(code)
}

// healthcareID recognises IHI, HPI-I and HPI-O numbers by their prefix
func healthcareID(number string) *common.Identifier {
	n := strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	var id *common.Identifier
	switch {
	case strings.HasPrefix(n, codes.IHIPrefix):
		id = common.NewIHI(n)
	case strings.HasPrefix(n, codes.HPIIPrefix):
		id = common.NewHPII(n)
	case strings.HasPrefix(n, codes.HPIOPrefix):
		id = common.NewHPIO(n)
	}
	if id == nil || id.HealthcareNumber() == "" {
		return nil
	}
	return id
}

// rootIdentifier builds an identifier from an OID or UUID, or returns nil
func rootIdentifier(root, extension string) *common.Identifier {
	root = strings.TrimSpace(root)
	if common.IsOID(root) || common.IsUUID(root) {
		return common.NewIdentifier(root, extension)
	}
	return nil
}

// entityIdentifier maps an EI: entity id^namespace^universal id^type
func entityIdentifier(f hl7v2.Field) *common.Identifier {
	if id := rootIdentifier(f.Component(3), f.Component(1)); id != nil {
		return id
	}
	return rootIdentifier(f.Component(1), "")
}

// facility maps an HD naming an organisation: name^universal id^type
func facility(f hl7v2.Field) *common.PartyRole {
	name := f.Component(1)
	if name == "" {
		return nil
	}
	return organisation(name, f.Component(2))
}

// orderingFacility maps an XON: name^...^organisation identifier (10)
func orderingFacility(f hl7v2.Field) *common.PartyRole {
	name := f.Component(1)
	if name == "" {
		return nil
	}
	return organisation(name, f.Component(10))
}

func organisation(name, id string) *common.PartyRole {
	party := common.NewOrganisationParty(&common.Organisation{Name: name})
	if hid := healthcareID(id); hid != nil {
		party.Identifiers = []*common.Identifier{hid}
	} else if rid := rootIdentifier(id, ""); rid != nil {
		party.Identifiers = []*common.Identifier{rid}
	}
	return common.NewPartyRole(nil, party)
}

// application maps the sending application HD onto an authoring device
func application(f hl7v2.Field) *common.AuthoringDevice {
	name := f.Component(1)
	if name == "" {
		return nil
	}
	d := &common.AuthoringDevice{SoftwareName: name}
	if id := rootIdentifier(f.Component(2), ""); id != nil {
		d.Identifiers = []*common.Identifier{id}
	}
	return d
}

func subjectOfCare(pid *hl7v2.Segment) (*common.SubjectOfCare, error) {
	dob, err := timestamp("PID-7", pid.Get(7))
	if err != nil {
		return nil, err
	}
	dod, err := timestamp("PID-29", pid.Get(29))
	if err != nil {
		return nil, err
	}

	p := &common.Person{
		DateOfBirth:      dob,
		DateOfDeath:      dod,
		Sex:              sexes[strings.ToUpper(pid.Get(8))],
		IndigenousStatus: codes.IndigenousStatus(pid.Component(10, 1)),
	}
	for _, rep := range pid.Repetitions(5) {
		get := func(i int) string { return hl7v2.Subcomponent(rep, i) }
		if get(1) == "" && get(2) == "" {
			continue
		}
		n := personName(get(1), get(2), get(3), get(5), get(4))
		n.Usage = get(7)
		p.Names = append(p.Names, n)
	}

	subject := common.NewSubjectOfCare(p)
	party := subject.Party
	for _, rep := range pid.Repetitions(3) {
		number, authority, kind := hl7v2.Subcomponent(rep, 1), hl7v2.Subcomponent(rep, 4), hl7v2.Subcomponent(rep, 5)
		switch {
		case number == "":
		case kind == "MC":
			party.Entitlements = append(party.Entitlements, &common.Entitlement{
				ID:   common.NewIdentifier(MedicareCardRoot, number),
				Type: codes.EntitlementMedicareBenefits,
			})
		case healthcareID(number) != nil:
			party.Identifiers = append(party.Identifiers, healthcareID(number))
		default:
			if id := rootIdentifier(authority, number); id != nil {
				party.Identifiers = append(party.Identifiers, id)
			}
		}
	}
	for _, rep := range pid.Repetitions(11) {
		if a := address(rep); a != nil {
			party.Addresses = append(party.Addresses, a)
		}
	}
	for _, field := range []int{13, 14} {
		for _, rep := range pid.Repetitions(field) {
			if e := telecom(rep); e != nil {
				party.ElectronicCommunicationDetails = append(party.ElectronicCommunicationDetails, e)
			}
		}
	}
	return subject, nil
}

// address maps an XAD: street^other^city^state^zip^country^type
func address(rep []string) *common.Address {
	get := func(i int) string { return hl7v2.Subcomponent(rep, i) }
	var lines []string
	for _, l := range []string{get(1), get(2)} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 && get(3) == "" && get(5) == "" {
		return nil
	}

	purpose, ok := addressPurposes[get(7)]
	if !ok {
		purpose = codes.AddressPurposeUnknown
	}
	a := &common.Address{Purpose: purpose}
	switch country := strings.ToUpper(get(6)); country {
	case "", "AU", "AUS":
		a.Australian = &common.AustralianAddress{
			Lines:    lines,
			Suburb:   get(3),
			State:    codes.AustralianState(strings.ToUpper(get(4))),
			Postcode: get(5),
		}
	default:
		a.International = &common.InternationalAddress{
			Lines:         lines,
			StateProvince: get(4),
			PostCode:      get(5),
			Country:       get(6),
		}
	}
	return a
}

// telecom maps an XTN: number^use^equipment^email^...^unformatted (12)
func telecom(rep []string) *common.ElectronicCommunicationDetail {
	get := func(i int) string { return hl7v2.Subcomponent(rep, i) }
	e := &common.ElectronicCommunicationDetail{Medium: codes.MediumTelephone}
	switch get(3) {
	case "Internet", "X.400":
		e.Medium = codes.MediumEmail
		e.Address = get(4)
	case "CP":
		e.Medium = codes.MediumMobile
		e.Usages = append(e.Usages, codes.UsageMobile)
	case "FX":
		e.Medium = codes.MediumFax
	case "BP":
		e.Medium = codes.MediumPager
	}
	if e.Address == "" {
		e.Address = firstNonEmpty(get(1), get(12))
	}
	if e.Address == "" {
		return nil
	}
	switch get(2) {
	case "PRN", "ORN":
		e.Usages = append(e.Usages, codes.UsagePersonal)
	case "WPN":
		e.Usages = append(e.Usages, codes.UsageBusiness)
	case "EMR":
		e.Usages = append(e.Usages, codes.UsageEmergency)
	}
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
