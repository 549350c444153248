// Package codes provides the static code tables referenced by document entities.
// Values follow the Australian clinical document value sets; the tables are
// lookup data only and carry no behaviour beyond membership and labels.
package codes

import "strings"

// NullFlavor explains why a value is absent
type NullFlavor string

const (
	NullFlavorNoInformation   NullFlavor = "NI"
	NullFlavorUnknown         NullFlavor = "UNK"
	NullFlavorAskedButUnknown NullFlavor = "ASKU"
	NullFlavorNotAvailable    NullFlavor = "NAV"
	NullFlavorNotAsked        NullFlavor = "NASK"
	NullFlavorMasked          NullFlavor = "MSK"
	NullFlavorNotApplicable   NullFlavor = "NA"
	NullFlavorOther           NullFlavor = "OTH"
	NullFlavorInvalid         NullFlavor = "INV"
)

var nullFlavorLabels = map[NullFlavor]string{
	NullFlavorNoInformation:   "no information",
	NullFlavorUnknown:         "unknown",
	NullFlavorAskedButUnknown: "asked but unknown",
	NullFlavorNotAvailable:    "temporarily unavailable",
	NullFlavorNotAsked:        "not asked",
	NullFlavorMasked:          "masked",
	NullFlavorNotApplicable:   "not applicable",
	NullFlavorOther:           "other",
	NullFlavorInvalid:         "invalid",
}

// Valid reports whether the flavor is a known code
func (n NullFlavor) Valid() bool {
	_, ok := nullFlavorLabels[n]
	return ok
}

// Label returns the display label, or the raw code when unknown
func (n NullFlavor) Label() string {
	if l, ok := nullFlavorLabels[n]; ok {
		return l
	}
	return string(n)
}

// CodingSystem identifies a terminology by OID
type CodingSystem struct {
	OID  string
	Name string
}

var (
	SNOMEDCTAU       = CodingSystem{OID: "2.16.840.1.113883.6.96", Name: "SNOMED CT-AU"}
	AMT              = CodingSystem{OID: "1.2.36.1.2001.1004.100", Name: "Australian Medicines Terminology (AMT)"}
	LOINC            = CodingSystem{OID: "2.16.840.1.113883.6.1", Name: "LOINC"}
	NCTIS            = CodingSystem{OID: "1.2.36.1.2001.1001.101", Name: "NCTIS Data Components"}
	ICD10AM          = CodingSystem{OID: "1.2.36.1.2001.1005.17", Name: "ICD-10-AM"}
	ANZSCO           = CodingSystem{OID: "2.16.840.1.113883.13.62", Name: "1220.0 - ANZSCO - Australian and New Zealand Standard Classification of Occupations, First Edition, 2006"}
	HL7RoleCode      = CodingSystem{OID: "2.16.840.1.113883.5.111", Name: "HL7 RoleCode"}
	PBS              = CodingSystem{OID: "1.2.36.1.2001.1005.22", Name: "PBS Item Code"}
	HL7ProviderRole  = CodingSystem{OID: "2.16.840.1.113883.12.286", Name: "HL7 Provider Role"}
	HL7ResultStatus  = CodingSystem{OID: "2.16.840.1.113883.12.123", Name: "HL7 Result Status"}
	HL7AbnormalFlags = CodingSystem{OID: "2.16.840.1.113883.12.78", Name: "HL7 Abnormal Flags"}
	HL7AllergenType  = CodingSystem{OID: "2.16.840.1.113883.12.127", Name: "HL7 Allergen Type"}
)

var codingSystems = []CodingSystem{
	SNOMEDCTAU, AMT, LOINC, NCTIS, ICD10AM, ANZSCO, HL7RoleCode, PBS,
	HL7ProviderRole, HL7ResultStatus, HL7AbnormalFlags, HL7AllergenType,
}

// HL7 v2 coding system mnemonics as sent in CE/CWE component 3
var mnemonics = map[string]CodingSystem{
	"SCT":     SNOMEDCTAU,
	"SNOMED":  SNOMEDCTAU,
	"AMT":     AMT,
	"LN":      LOINC,
	"LOINC":   LOINC,
	"I10":     ICD10AM,
	"I10AM":   ICD10AM,
	"ICD10AM": ICD10AM,
	"PBS":     PBS,
	"NCTIS":   NCTIS,
	"ANZSCO":  ANZSCO,
}

// CodingSystemByMnemonic resolves an HL7 v2 coding system name or an OID
func CodingSystemByMnemonic(s string) (CodingSystem, bool) {
	if cs, ok := mnemonics[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return cs, true
	}
	return LookupCodingSystem(s)
}

// LookupCodingSystem finds a known coding system by OID
func LookupCodingSystem(oid string) (CodingSystem, bool) {
	for _, cs := range codingSystems {
		if cs.OID == oid {
			return cs, true
		}
	}
	return CodingSystem{}, false
}

// AddressPurpose classifies an address
type AddressPurpose string

const (
	AddressPurposeBusiness    AddressPurpose = "1"
	AddressPurposeMailing     AddressPurpose = "2"
	AddressPurposeTemporary   AddressPurpose = "3"
	AddressPurposeResidential AddressPurpose = "4"
	AddressPurposeUnknown     AddressPurpose = "9"
)

// Valid reports whether the purpose is a known code
func (p AddressPurpose) Valid() bool {
	switch p {
	case AddressPurposeBusiness, AddressPurposeMailing, AddressPurposeTemporary,
		AddressPurposeResidential, AddressPurposeUnknown:
		return true
	}
	return false
}

// AustralianState is a state or territory abbreviation
type AustralianState string

var australianStates = map[AustralianState]bool{
	"ACT": true, "NSW": true, "NT": true, "QLD": true,
	"SA": true, "TAS": true, "VIC": true, "WA": true,
}

// Valid reports whether the state is a known abbreviation
func (s AustralianState) Valid() bool {
	return australianStates[s]
}

// Medium is an electronic communication medium
type Medium string

const (
	MediumTelephone Medium = "PHONE"
	MediumMobile    Medium = "MOBILE"
	MediumFax       Medium = "FAX"
	MediumPager     Medium = "PAGER"
	MediumEmail     Medium = "EMAIL"
	MediumURL       Medium = "URL"
)

// Valid reports whether the medium is a known code
func (m Medium) Valid() bool {
	switch m {
	case MediumTelephone, MediumMobile, MediumFax, MediumPager, MediumEmail, MediumURL:
		return true
	}
	return false
}

// Usage is the intended use of a communication detail
type Usage string

const (
	UsageBusiness  Usage = "WP"
	UsagePersonal  Usage = "H"
	UsageMobile    Usage = "MC"
	UsageEmergency Usage = "EC"
)

// Valid reports whether the usage is a known code
func (u Usage) Valid() bool {
	switch u {
	case UsageBusiness, UsagePersonal, UsageMobile, UsageEmergency:
		return true
	}
	return false
}

// EntitlementType is the kind of healthcare entitlement
type EntitlementType string

const (
	EntitlementMedicareBenefits         EntitlementType = "1"
	EntitlementPensionerConcession      EntitlementType = "2"
	EntitlementHealthcareConcession     EntitlementType = "3"
	EntitlementPBSSafetyNetConcession   EntitlementType = "4"
	EntitlementPBSSafetyNetEntitlement  EntitlementType = "5"
	EntitlementRPBSBenefits             EntitlementType = "6"
	EntitlementMedicarePrescriberNumber EntitlementType = "10"
	EntitlementMedicarePharmacyApproval EntitlementType = "11"
	EntitlementDVAPrescriberNumber      EntitlementType = "12"
	EntitlementHospitalProviderNumber   EntitlementType = "13"
	EntitlementMedicareProviderNumber   EntitlementType = "14"
)

// Valid reports whether the entitlement type is a known code
func (e EntitlementType) Valid() bool {
	switch e {
	case EntitlementMedicareBenefits, EntitlementPensionerConcession, EntitlementHealthcareConcession,
		EntitlementPBSSafetyNetConcession, EntitlementPBSSafetyNetEntitlement, EntitlementRPBSBenefits,
		EntitlementMedicarePrescriberNumber, EntitlementMedicarePharmacyApproval,
		EntitlementDVAPrescriberNumber, EntitlementHospitalProviderNumber, EntitlementMedicareProviderNumber:
		return true
	}
	return false
}

// IndigenousStatus is the METeOR Indigenous status of a person
type IndigenousStatus string

const (
	IndigenousAboriginal                IndigenousStatus = "1"
	IndigenousTorresStraitIslander      IndigenousStatus = "2"
	IndigenousAboriginalAndTorresStrait IndigenousStatus = "3"
	IndigenousNeither                   IndigenousStatus = "4"
	IndigenousNotStated                 IndigenousStatus = "9"
)

// Valid reports whether the status is a known code
func (s IndigenousStatus) Valid() bool {
	switch s {
	case IndigenousAboriginal, IndigenousTorresStraitIslander, IndigenousAboriginalAndTorresStrait,
		IndigenousNeither, IndigenousNotStated:
		return true
	}
	return false
}

// Sex is the administrative sex of a person
type Sex string

const (
	SexMale      Sex = "M"
	SexFemale    Sex = "F"
	SexIntersex  Sex = "I"
	SexNotStated Sex = "N"
)

// Valid reports whether the sex is a known code
func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexIntersex, SexNotStated:
		return true
	}
	return false
}

// RelationshipType links a document to its parent
type RelationshipType string

const (
	// RelationshipTransform marks a document derived from a parent in another set
	RelationshipTransform RelationshipType = "XFRM"
	// RelationshipReplace marks a new version of a parent in the same set
	RelationshipReplace RelationshipType = "RPLC"
)

// Valid reports whether the relationship is a known code
func (r RelationshipType) Valid() bool {
	return r == RelationshipTransform || r == RelationshipReplace
}

// HealthcareIdentifierRoot is the OID arc for IHI, HPI-I and HPI-O numbers
const HealthcareIdentifierRoot = "1.2.36.1.2001.1003.0"

// Healthcare identifier number prefixes
const (
	IHIPrefix  = "800360"
	HPIIPrefix = "800361"
	HPIOPrefix = "800362"
)
