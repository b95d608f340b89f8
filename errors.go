package jadn

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported by validation.
const (
	CodeInvalidType    = "invalid_type"
	CodeRequired       = "required"
	CodeUnknownKey     = "unknown_key"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodePattern        = "pattern"
	CodeInvalidEnum    = "invalid_enum"
	CodeInvalidFormat  = "invalid_format"
	CodeChoiceCount    = "choice_count"
	CodeDuplicateValue = "duplicate_value"
	CodeUnresolvedType = "unresolved_type"
	CodeNotExported    = "not_exported"
	CodeDepthExceeded  = "depth_exceeded"
)

// Sentinels for the error taxonomy. Every construction error and every
// validation Issue matches exactly one of them with errors.Is.
var (
	ErrSchema     = errors.New("jadn: schema error")
	ErrDuplicate  = errors.New("jadn: duplicate error")
	ErrFormat     = errors.New("jadn: format error")
	ErrOption     = errors.New("jadn: option error")
	ErrValidation = errors.New("jadn: validation error")
)

// Kind classifies construction-time errors.
type Kind int

const (
	KindSchema Kind = iota + 1
	KindDuplicate
	KindFormat
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "SchemaError"
	case KindDuplicate:
		return "DuplicateError"
	case KindFormat:
		return "FormatError"
	case KindOption:
		return "OptionError"
	}
	return "Error"
}

func (k Kind) sentinel() error {
	switch k {
	case KindSchema:
		return ErrSchema
	case KindDuplicate:
		return ErrDuplicate
	case KindFormat:
		return ErrFormat
	case KindOption:
		return ErrOption
	}
	return nil
}

// Error is raised while a schema is being constructed or normalized.
type Error struct {
	Kind    Kind
	Type    string // owning type name, if any
	Field   string // owning field name, if any
	Message string
	Cause   error
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Kind.String())
	switch {
	case e.Type != "" && e.Field != "":
		fmt.Fprintf(b, " in %s.%s", e.Type, e.Field)
	case e.Type != "":
		fmt.Fprintf(b, " in %s", e.Type)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Is matches the sentinel for the error kind.
func (e *Error) Is(target error) bool { return target != nil && target == e.Kind.sentinel() }

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, typ, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Type: typ, Field: field, Message: fmt.Sprintf(format, args...)}
}

func schemaErrorf(typ, format string, args ...any) *Error {
	return newError(KindSchema, typ, "", format, args...)
}

func formatErrorf(typ, field, format string, args ...any) *Error {
	return newError(KindFormat, typ, field, format, args...)
}

func optionErrorf(typ, field, format string, args ...any) *Error {
	return newError(KindOption, typ, field, format, args...)
}

func duplicateErrorf(typ, field, format string, args ...any) *Error {
	return newError(KindDuplicate, typ, field, format, args...)
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the instance (for example: /items/2/price).
	Code    string // One of the Code* constants.
	Message string
	Type    string // type being validated when the issue was found
	Cause   error  // Optional: underlying error, e.g. from a format validator.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

func (it Issue) Error() string {
	if it.Message == "" {
		return fmt.Sprintf("%s at %s", it.Code, it.Path)
	}
	return fmt.Sprintf("%s at %s: %s", it.Code, it.Path, it.Message)
}

// Is reports ErrValidation for every Issue.
func (it Issue) Is(target error) bool { return target == ErrValidation }

func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports ErrValidation for a non-empty collection.
func (iss Issues) Is(target error) bool { return target == ErrValidation && len(iss) > 0 }

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
