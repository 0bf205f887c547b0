package schema

import (
	"fmt"
	"strings"
)

func errNoDefault(kind Kind) error {
	return fmt.Errorf("kind %s does not take a default value", kind)
}

// ValidateDefaultValue checks that a default(...) option can be parsed for the kind.
// Returns an error with a hint when the text looks like a common mistake.
func ValidateDefaultValue(kind Kind, text string) error {
	trimmed := strings.TrimSpace(text)
	switch kind {
	case KindJSON, KindLines:
		return fmt.Errorf(
			"invalid default %q: %s fields always default to an empty document\n"+
				"Fix: remove default(%s)", text, kind, text)
	case KindBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "false", "1", "0", "t", "f":
			return nil
		case "yes", "no", "on", "off":
			return fmt.Errorf("invalid default %q for boolean field\nFix: use default(true) or default(false)", text)
		}
		return fmt.Errorf("invalid default %q for boolean field", text)
	case KindNumber:
		if !isNumericText(trimmed) {
			return fmt.Errorf("invalid default %q for number field", text)
		}
	}
	return nil
}

// Validate checks that every field's Go type can hold its kind.
func Validate(s *Schema) error {
	for _, f := range s.fields {
		if f.GoType == nil {
			return fmt.Errorf("field %s: missing Go type", f.DomainKey)
		}
		if !Accepts(f.Kind, f.GoType) {
			return fmt.Errorf("field %s: Go type %s cannot hold %s values", f.GoField, f.GoType, f.Kind)
		}
		if f.PrimaryKey && f.Kind != KindNumber {
			return fmt.Errorf("field %s: primary key must be a number", f.GoField)
		}
	}
	return nil
}

// isNumericText checks if a string is a plain decimal number
func isNumericText(s string) bool {
	if len(s) == 0 {
		return false
	}
	digits := 0
	for i, c := range s {
		if i == 0 && (c == '-' || c == '+') {
			continue
		}
		if c == '.' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
		digits++
	}
	return digits > 0
}
