package models

// EntityGroup is the CoNLL-03 label a recognizer assigns to a span.
type EntityGroup string

const (
	GroupPerson       EntityGroup = "PER"
	GroupOrganization EntityGroup = "ORG"
	GroupLocation     EntityGroup = "LOC"
	GroupMisc         EntityGroup = "MISC"
)

// ParseEntityGroup maps the label spellings recognizers emit onto an EntityGroup.
// The second return is false for labels outside the four CoNLL groups.
func ParseEntityGroup(label string) (EntityGroup, bool) {
	switch label {
	case "PER", "PERSON", "per", "person":
		return GroupPerson, true
	case "ORG", "ORGANIZATION", "org", "organization":
		return GroupOrganization, true
	case "LOC", "LOCATION", "loc", "location":
		return GroupLocation, true
	case "MISC", "misc":
		return GroupMisc, true
	}
	return "", false
}

// EntitySpan is one whole-word entity produced by a recognizer.
// Word may still carry "##" continuation markers from sub-word merging.
type EntitySpan struct {
	Word  string      `json:"word"`
	Group EntityGroup `json:"entity_group"`
	Score float64     `json:"score"`
	Start int         `json:"start"`
	End   int         `json:"end"`
}

// ExtractedJobInfo is the response record. Every field is always serialized,
// as a string or null.
type ExtractedJobInfo struct {
	CompanyName      *string `json:"company_name"`
	Title            *string `json:"title"`
	JobType          *string `json:"job_type"`
	NoOfOpenings     *string `json:"no_of_openings"`
	QualificationReq *string `json:"qualification_req"`
	JobDescription   *string `json:"job_description"`
	Responsibilities *string `json:"responsibilities"`
	Location         *string `json:"location"`
}

// Fields returns the record as ordered key/value pairs, nil values included.
func (e *ExtractedJobInfo) Fields() []Field {
	return []Field{
		{"company_name", e.CompanyName},
		{"title", e.Title},
		{"job_type", e.JobType},
		{"no_of_openings", e.NoOfOpenings},
		{"qualification_req", e.QualificationReq},
		{"job_description", e.JobDescription},
		{"responsibilities", e.Responsibilities},
		{"location", e.Location},
	}
}

type Field struct {
	Key   string
	Value *string
}
