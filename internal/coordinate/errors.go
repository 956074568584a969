package coordinate

import "errors"

// Sentinel errors shared across the conversion engine.
var (
	// ErrEmptyInput indicates the input text was empty after trimming.
	ErrEmptyInput = errors.New("input is empty")
	// ErrUnknownFormat indicates no known coordinate format matched the input.
	ErrUnknownFormat = errors.New("unknown coordinate format")
)

// ValidationError reports input that matched a grammar but violated a value
// constraint. Suggestions, when present, are corrected input candidates the
// caller can surface to the user.
type ValidationError struct {
	Field       string
	Message     string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// ParseError reports text that did not match any known grammar for the
// requested format.
type ParseError struct {
	Format      Format
	Input       string
	Message     string
	Suggestions []string
}

func (e *ParseError) Error() string {
	return "parse " + string(e.Format) + ": " + e.Message
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsParseError unwraps err into a *ParseError if possible.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	ok := errors.As(err, &pe)
	return pe, ok
}

// ErrorSuggestions returns the correction suggestions attached to err, if any.
func ErrorSuggestions(err error) []string {
	if ve, ok := AsValidationError(err); ok {
		return ve.Suggestions
	}
	if pe, ok := AsParseError(err); ok {
		return pe.Suggestions
	}
	return nil
}
