package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Login form limits enforced by the judge API.
const (
	MinAccountLen  = 4
	MaxAccountLen  = 256
	MinPasswordLen = 8
	MaxPasswordLen = 256

	// MaxSourceLen caps code pasted into the obfuscator form.
	MaxSourceLen = 64 * 1024
)

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// RequiredRange validates that a field is not empty and is between minLen and maxLen characters.
func RequiredRange(fieldName string, minLen, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		n := utf8.RuneCountInString(v)
		if n < minLen || n > maxLen {
			return fmt.Sprintf("%s must be between %d and %d characters.", fieldName, minLen, maxLen)
		}
		return ""
	}
}

// NoSpaces rejects values containing whitespace. Accounts are single tokens.
func NoSpaces(fieldName string) Validator {
	return func(v string) string {
		if strings.IndexFunc(strings.TrimSpace(v), unicode.IsSpace) >= 0 {
			return fieldName + " cannot contain spaces."
		}
		return ""
	}
}

// Pattern validates that a non-empty field matches re.
func Pattern(fieldName string, re *regexp.Regexp) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if !re.MatchString(v) {
			return fieldName + " has an invalid format."
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// Optional validates that an optional field does not exceed maxLen characters if provided.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Valid reports whether no field failed.
func (fv *FieldValidator) Valid() bool { return len(fv.errors) == 0 }

// LoginForm validates the sign-in form fields.
func LoginForm(account, password string) map[string]string {
	return New().
		Validate("userAccount", account,
			RequiredRange("Account", MinAccountLen, MaxAccountLen), NoSpaces("Account")).
		Validate("userPassword", password,
			RequiredRange("Password", MinPasswordLen, MaxPasswordLen)).
		Errors()
}

var questionIDPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// SubmitInput holds the code submission form fields.
type SubmitInput struct {
	QuestionID string
	Language   string
	Code       string
}

// SubmitForm validates a code submission.
func SubmitForm(in SubmitInput) map[string]string {
	return New().
		Validate("questionId", in.QuestionID, Required("Question", 32), Pattern("Question", questionIDPattern)).
		Validate("language", in.Language, Required("Language", 32), NoSpaces("Language")).
		Validate("code", in.Code, Required("Code", MaxSourceLen)).
		Errors()
}

// ObfuscateInput holds the obfuscator form fields.
type ObfuscateInput struct {
	Language   string
	Scheme     string
	SourceCode string
	Config     string
}

// MaxConfigLen caps the optional scheme configuration.
const MaxConfigLen = 4096

// ObfuscateForm validates the obfuscator form against the schemes the API
// supports for the chosen language.
func ObfuscateForm(in ObfuscateInput, schemesByLanguage map[string][]string) map[string]string {
	languages := make([]string, 0, len(schemesByLanguage))
	for lang := range schemesByLanguage {
		languages = append(languages, lang)
	}
	slices.Sort(languages)
	fv := New().
		Validate("language", in.Language, Required("Language", 32), OneOf("Language", languages)).
		Validate("sourceCode", in.SourceCode, Required("Source code", MaxSourceLen)).
		Validate("config", in.Config, Optional("Config", MaxConfigLen))
	if _, bad := fv.errors["language"]; !bad {
		fv.Validate("scheme", in.Scheme, Required("Scheme", 64),
			OneOf("Scheme", schemesFor(schemesByLanguage, in.Language)))
	}
	return fv.Errors()
}

func schemesFor(schemesByLanguage map[string][]string, language string) []string {
	for lang, schemes := range schemesByLanguage {
		if strings.EqualFold(lang, strings.TrimSpace(language)) {
			return schemes
		}
	}
	return nil
}
