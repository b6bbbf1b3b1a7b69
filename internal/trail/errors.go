package trail

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation")

	// ErrNotFound is returned when no stored route matches an identifier.
	ErrNotFound = errors.New("route not found")
)

// Stable field error codes.
const (
	CodeRequired = "required"
	CodeType     = "type"
	CodeMin      = "min"
	CodeInvalid  = "invalid"
)

// FieldError is one failed rule at a wire path such as "stages[0].stage_name".
type FieldError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationError collects every field error found in one pass.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (v *ValidationError) Error() string {
	switch len(v.Fields) {
	case 0:
		return "validation failed"
	case 1:
		return v.Fields[0].Error()
	}
	msgs := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add records a field error.
func (v *ValidationError) Add(path, code, message string) {
	v.Fields = append(v.Fields, FieldError{Path: path, Code: code, Message: message})
}

// Has reports whether path has at least one error.
func (v *ValidationError) Has(path string) bool {
	for _, f := range v.Fields {
		if f.Path == path {
			return true
		}
	}
	return false
}

// HasErrors reports whether any error was recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// Sort orders errors by path, then code.
func (v *ValidationError) Sort() {
	sort.SliceStable(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}
		return v.Fields[i].Code < v.Fields[j].Code
	})
}

// StorageError wraps a failure of the repository backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err unless it is nil or already a not-found error.
func NewStorageError(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
