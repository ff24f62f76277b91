// Package errors renders errors at the CLI boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/stridelog/internal/logger"
)

// Format renders err with an "Error: " prefix. Validation failures get one
// line per field.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := FormatValidation(err); ok {
		return "Error: invalid input\n" + msg
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// FormatValidation turns validator errors into "  - field: reason" lines.
// The boolean is false when err carries no validation errors.
func FormatValidation(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return "", false
	}

	lines := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		lines = append(lines, fmt.Sprintf("  - %s: %s", fe.Field(), reason(fe)))
	}
	return strings.Join(lines, "\n"), true
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "tier":
		return "must be A, B or C"
	case "racedate":
		return "must be a DD/MM/YYYY date"
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
