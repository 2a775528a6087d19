package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/agnivade/levenshtein"
)

// Section names one of the four records.
type Section string

const (
	SectionCompany    Section = "company"
	SectionAccounting Section = "accounting"
	SectionBackup     Section = "backup"
	SectionUser       Section = "user"
)

// Sections returns the records in display order.
func Sections() []Section {
	return []Section{SectionCompany, SectionAccounting, SectionBackup, SectionUser}
}

// Title is the heading used for a section on screen.
func (s Section) Title() string {
	switch s {
	case SectionCompany:
		return "Company Profile"
	case SectionAccounting:
		return "Accounting Preferences"
	case SectionBackup:
		return "Backup Configuration"
	case SectionUser:
		return "User Preferences"
	default:
		return string(s)
	}
}

// Kind is the input control a field is edited with.
type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindPhone  Kind = "tel"
	KindURL    Kind = "url"
	KindChoice Kind = "choice"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindTime   Kind = "timestamp"
)

// FieldRef addresses one field of one record, written "section.field".
type FieldRef struct {
	Section Section
	Name    string
}

func (r FieldRef) String() string { return string(r.Section) + "." + r.Name }

// ParseRef parses "section.field". The field is not looked up.
func ParseRef(s string) (FieldRef, error) {
	sec, name, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || sec == "" || name == "" {
		return FieldRef{}, fmt.Errorf("field reference %q: want section.field", s)
	}
	return FieldRef{Section: Section(sec), Name: name}, nil
}

// Field describes one editable field and how to read and write it as text.
type Field struct {
	Ref     FieldRef
	Label   string
	Kind    Kind
	Choices []string
	// Domain is a human description of the documented value range.
	Domain string

	get   func(*Settings) string
	set   func(*Settings, string) error
	check func(*Settings) string
}

// Get renders the field's current value.
func (f Field) Get(s *Settings) string { return f.get(s) }

var (
	months = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	registry = buildRegistry()
)

func buildRegistry() []Field {
	return []Field{
		text(SectionCompany, "companyName", "Company Name", KindText, func(s *Settings) *string { return &s.Company.CompanyName }),
		text(SectionCompany, "address", "Address", KindText, func(s *Settings) *string { return &s.Company.Address }),
		text(SectionCompany, "city", "City", KindText, func(s *Settings) *string { return &s.Company.City }),
		text(SectionCompany, "state", "State", KindText, func(s *Settings) *string { return &s.Company.State }),
		text(SectionCompany, "zipCode", "ZIP Code", KindText, func(s *Settings) *string { return &s.Company.ZipCode }),
		text(SectionCompany, "phone", "Phone", KindPhone, func(s *Settings) *string { return &s.Company.Phone }),
		text(SectionCompany, "email", "Email", KindEmail, func(s *Settings) *string { return &s.Company.Email }),
		text(SectionCompany, "website", "Website", KindURL, func(s *Settings) *string { return &s.Company.Website }),
		text(SectionCompany, "taxId", "Tax ID", KindText, func(s *Settings) *string { return &s.Company.TaxID }),

		choice(SectionAccounting, "fiscalYearStart", "Fiscal Year Start", months, func(s *Settings) *string { return &s.Accounting.FiscalYearStart }),
		choice(SectionAccounting, "currency", "Base Currency", []string{"USD", "EUR", "GBP", "CAD", "AUD"}, func(s *Settings) *string { return &s.Accounting.Currency }),
		choice(SectionAccounting, "dateFormat", "Date Format", []string{"MM/DD/YYYY", "DD/MM/YYYY", "YYYY-MM-DD"}, func(s *Settings) *string { return &s.Accounting.DateFormat }),
		withChoices(integer(SectionAccounting, "decimalPlaces", "Decimal Places", func(s *Settings) *int { return &s.Accounting.DecimalPlaces }), "0", "1", "2", "3"),
		withCheck(decimal(SectionAccounting, "defaultTaxRate", "Default Tax Rate (%)", func(s *Settings) *float64 { return &s.Accounting.DefaultTaxRate }),
			"0 to 100", func(s *Settings) string {
				if r := s.Accounting.DefaultTaxRate; r < 0 || r > 100 {
					return "must be between 0 and 100"
				}
				return ""
			}),

		boolean(SectionBackup, "autoBackup", "Automatic Backup", func(s *Settings) *bool { return &s.Backup.AutoBackup }),
		choice(SectionBackup, "backupFrequency", "Backup Frequency", []string{"hourly", "daily", "weekly", "monthly"}, func(s *Settings) *string { return &s.Backup.BackupFrequency }),
		choice(SectionBackup, "backupLocation", "Backup Location", []string{"cloud", "local", "external"}, func(s *Settings) *string { return &s.Backup.BackupLocation }),
		withCheck(integer(SectionBackup, "retentionDays", "Retention (days)", func(s *Settings) *int { return &s.Backup.RetentionDays }),
			"greater than 0", func(s *Settings) string {
				if s.Backup.RetentionDays <= 0 {
					return "must be greater than 0"
				}
				return ""
			}),
		timestamp(SectionBackup, "lastBackup", "Last Backup", func(s *Settings) *time.Time { return &s.Backup.LastBackup }),

		choice(SectionUser, "theme", "Theme", []string{"light", "dark", "system"}, func(s *Settings) *string { return &s.User.Theme }),
		choice(SectionUser, "language", "Language", []string{"en", "es", "fr", "de"}, func(s *Settings) *string { return &s.User.Language }),
		withCheck(text(SectionUser, "timezone", "Timezone", KindText, func(s *Settings) *string { return &s.User.Timezone }),
			"IANA zone name", func(s *Settings) string {
				if _, err := time.LoadLocation(s.User.Timezone); err != nil {
					return "unknown time zone"
				}
				return ""
			}),
		withChoices(integer(SectionUser, "itemsPerPage", "Items Per Page", func(s *Settings) *int { return &s.User.ItemsPerPage }), "10", "25", "50", "100"),
		boolean(SectionUser, "showConfirmations", "Show Confirmations", func(s *Settings) *bool { return &s.User.ShowConfirmations }),
	}
}

func text(sec Section, name, label string, kind Kind, at func(*Settings) *string) Field {
	return Field{
		Ref:   FieldRef{Section: sec, Name: name},
		Label: label,
		Kind:  kind,
		get:   func(s *Settings) string { return *at(s) },
		set: func(s *Settings, raw string) error {
			*at(s) = raw
			return nil
		},
	}
}

func choice(sec Section, name, label string, choices []string, at func(*Settings) *string) Field {
	f := text(sec, name, label, KindChoice, at)
	return withChoices(f, choices...)
}

func integer(sec Section, name, label string, at func(*Settings) *int) Field {
	return Field{
		Ref:   FieldRef{Section: sec, Name: name},
		Label: label,
		Kind:  KindInt,
		get:   func(s *Settings) string { return strconv.Itoa(*at(s)) },
		set: func(s *Settings, raw string) error {
			v, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%w: %q is not a whole number", ErrInvalidValue, raw)
			}
			*at(s) = v
			return nil
		},
	}
}

func decimal(sec Section, name, label string, at func(*Settings) *float64) Field {
	return Field{
		Ref:   FieldRef{Section: sec, Name: name},
		Label: label,
		Kind:  KindFloat,
		get:   func(s *Settings) string { return strconv.FormatFloat(*at(s), 'f', -1, 64) },
		set: func(s *Settings, raw string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
			}
			*at(s) = v
			return nil
		},
	}
}

func boolean(sec Section, name, label string, at func(*Settings) *bool) Field {
	return Field{
		Ref:   FieldRef{Section: sec, Name: name},
		Label: label,
		Kind:  KindBool,
		get:   func(s *Settings) string { return strconv.FormatBool(*at(s)) },
		set: func(s *Settings, raw string) error {
			v, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%w: %q is not true or false", ErrInvalidValue, raw)
			}
			*at(s) = v
			return nil
		},
	}
}

func timestamp(sec Section, name, label string, at func(*Settings) *time.Time) Field {
	return Field{
		Ref:   FieldRef{Section: sec, Name: name},
		Label: label,
		Kind:  KindTime,
		get:   func(s *Settings) string { return at(s).Format(time.RFC3339) },
		set: func(s *Settings, raw string) error {
			v, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%w: %q is not an RFC 3339 timestamp", ErrInvalidValue, raw)
			}
			*at(s) = v
			return nil
		},
	}
}

func withChoices(f Field, choices ...string) Field {
	f.Choices = choices
	f.Domain = strings.Join(choices, ", ")
	return f
}

func withCheck(f Field, domain string, check func(*Settings) string) Field {
	f.Domain = domain
	f.check = check
	return f
}

// Fields returns every field in display order.
func Fields() []Field {
	out := make([]Field, len(registry))
	copy(out, registry)
	return out
}

// FieldsIn returns the fields of one section in display order.
func FieldsIn(sec Section) []Field {
	var out []Field
	for _, f := range registry {
		if f.Ref.Section == sec {
			out = append(out, f)
		}
	}
	return out
}

// Lookup finds a field by reference. The error is an *UnknownFieldError.
func Lookup(ref FieldRef) (Field, error) {
	for _, f := range registry {
		if f.Ref == ref {
			return f, nil
		}
	}
	return Field{}, &UnknownFieldError{Ref: ref.String(), Suggestion: Suggest(ref.String())}
}

// Apply parses raw into the field ref of s. It is the record-level
// operation behind Form.Set.
func Apply(s *Settings, ref FieldRef, raw string) error {
	f, err := Lookup(ref)
	if err != nil {
		return err
	}
	return f.set(s, raw)
}

// Suggest returns the known reference closest to s, or "" when nothing is
// close enough to be a plausible typo.
func Suggest(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	best, bestDist := "", -1
	for _, f := range registry {
		cand := f.Ref.String()
		d := levenshtein.ComputeDistance(s, strings.ToLower(cand))
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	limit := len(s) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
