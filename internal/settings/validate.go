package settings

import "slices"

// Validate reports every field whose value lies outside its documented
// domain. Nothing in the form enforces these; callers decide what to do.
func Validate(s Settings) []*ValidationError {
	var out []*ValidationError
	for _, f := range registry {
		if reason := f.violation(&s); reason != "" {
			out = append(out, &ValidationError{Field: f.Ref, Value: f.get(&s), Reason: reason})
		}
	}
	return out
}

// ValidateField is Validate restricted to one field.
func ValidateField(s Settings, ref FieldRef) *ValidationError {
	f, err := Lookup(ref)
	if err != nil {
		return nil
	}
	if reason := f.violation(&s); reason != "" {
		return &ValidationError{Field: ref, Value: f.get(&s), Reason: reason}
	}
	return nil
}

func (f Field) violation(s *Settings) string {
	if len(f.Choices) > 0 && !slices.Contains(f.Choices, f.get(s)) {
		return "expected one of " + f.Domain
	}
	if f.check != nil {
		return f.check(s)
	}
	return ""
}
