package model

import "time"

// Question ids with fixed semantics. They are present in every form,
// always required, and cannot be removed by the form builder.
const (
	QFullName = "q_fullname"
	QEmail    = "q_email"
	QPhone    = "q_phone"
	QResume   = "q_resume"
	QCollege  = "q_college"
)

const StatusApplied = "Applied"

type Opening struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Location         string     `json:"location"`
	Department       string     `json:"department"`
	PreferredSources []string   `json:"preferredSources"`
	DurationMins     int        `json:"durationMins"`
	Schema           []Question `json:"schema,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type Question struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Label      string      `json:"label"`
	Required   bool        `json:"required"`
	Options    []string    `json:"options,omitempty"`
	Validation *Validation `json:"validation,omitempty"`
	PageBreak  bool        `json:"pageBreak,omitempty"`
}

// Validation carries the client-side rules authored in the form builder.
// The intake path stores and serves them without enforcing them.
type Validation struct {
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Accept      string   `json:"accept,omitempty"`
	MaxFileSize *int64   `json:"maxFileSize,omitempty"`
}

type Form struct {
	OpeningID string     `json:"openingId"`
	Questions []Question `json:"questions"`
	Meta      FormMeta   `json:"meta"`
}

type FormMeta struct {
	CoreFields  map[string]string `json:"coreFields"`
	FormID      string            `json:"formId"`
	IsPublished bool              `json:"isPublished"`
	PublishedAt *time.Time        `json:"publishedAt,omitempty"`
	ShareLinks  map[string]string `json:"shareLinks,omitempty"`
	GenericLink string            `json:"genericLink,omitempty"`
}

// Response is one candidate submission. Answers values are either a string
// or a []string when the same key was submitted more than once.
// ResumeLink is empty when no resume could be stored anywhere.
type Response struct {
	ID           string         `json:"id"`
	OpeningID    string         `json:"openingId"`
	OpeningTitle string         `json:"openingTitle"`
	Source       string         `json:"source"`
	FullName     string         `json:"fullName,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	College      string         `json:"college,omitempty"`
	ResumeLink   string         `json:"resumeLink"`
	Answers      map[string]any `json:"answers"`
	Status       string         `json:"status"`
	CreatedAt    string         `json:"createdAt"`
}

// CoreQuestions returns the five protected questions in their fixed order.
func CoreQuestions() []Question {
	return []Question{
		{ID: QFullName, Type: "short_text", Label: "Full Name", Required: true},
		{ID: QEmail, Type: "email", Label: "Email", Required: true},
		{ID: QPhone, Type: "short_text", Label: "Phone", Required: true},
		{ID: QResume, Type: "file", Label: "Resume", Required: true},
		{ID: QCollege, Type: "short_text", Label: "College", Required: true},
	}
}

func IsProtected(id string) bool {
	switch id {
	case QFullName, QEmail, QPhone, QResume, QCollege:
		return true
	}
	return false
}

// EnsureCoreFields normalizes a schema so the protected questions come
// first, in fixed order, with required forced on. Labels and options edited
// by the recruiter are preserved; missing core questions are reinserted
// with defaults. Opening-specific questions keep their relative order.
func EnsureCoreFields(questions []Question) []Question {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		if IsProtected(q.ID) {
			byID[q.ID] = q
		}
	}

	out := make([]Question, 0, len(questions)+5)
	for _, core := range CoreQuestions() {
		q, ok := byID[core.ID]
		if !ok {
			q = core
		}
		q.Required = true
		out = append(out, q)
	}
	for _, q := range questions {
		if !IsProtected(q.ID) {
			out = append(out, q)
		}
	}
	return out
}

// CoreFieldLabels maps each protected question id to its label in the
// given schema (defaults when the schema omits one).
func CoreFieldLabels(questions []Question) map[string]string {
	labels := make(map[string]string, 5)
	for _, core := range CoreQuestions() {
		labels[core.ID] = core.Label
	}
	for _, q := range questions {
		if IsProtected(q.ID) && q.Label != "" {
			labels[q.ID] = q.Label
		}
	}
	return labels
}
