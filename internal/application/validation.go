package application

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "englishName" -> "English name")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"tag":         "tag name",
		"parent":      "parent name",
		"from":        "source parent",
		"to":          "destination parent",
		"synonym":     "synonym",
		"englishName": "English name",
		"tagType":     "tag type",
		"include":     "include tags",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateName checks that a tag, category or synonym name is usable:
// non-empty and without surrounding whitespace.
func ValidateName(fieldName, name string) error {
	if err := ValidateRequired(fieldName, name); err != nil {
		return err
	}
	if strings.TrimSpace(name) != name {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s has leading or trailing whitespace: %q", formatFieldName(fieldName), name),
		}
	}
	return nil
}

// ValidateTagName is ValidateName plus the "#" marker requirement
func ValidateTagName(fieldName, name string) error {
	if err := ValidateName(fieldName, name); err != nil {
		return err
	}
	if !IsTag(name) || name == "#" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected a tag starting with #, got: %s", name),
		}
	}
	return nil
}

// ValidateEnglishName accepts an empty name or printable ASCII
func ValidateEnglishName(name string) error {
	if err := validate.Var(name, "omitempty,printascii"); err != nil {
		return &ValidationError{
			Field:   "englishName",
			Message: fmt.Sprintf("English name must be printable ASCII, got: %q", name),
		}
	}
	return nil
}
