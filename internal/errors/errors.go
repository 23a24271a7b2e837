package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNotSignedIn      = errors.New("not signed in")
	ErrNoSongSelected   = errors.New("no song selected")
	ErrSongNotFound     = errors.New("song not found")
	ErrFeedUnavailable  = errors.New("feed unavailable")
	ErrRateLimited      = errors.New("rate limited")
	ErrNetworkError     = errors.New("network error")
	ErrTimeout          = errors.New("request timeout")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrFavoritesOffline = errors.New("favorites store unavailable")
)

// LiltError wraps an error with a user-friendly suggestion.
type LiltError struct {
	Err        error
	Suggestion string
}

func (e *LiltError) Error() string {
	return e.Err.Error()
}

func (e *LiltError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &LiltError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var liltErr *LiltError
	if errors.As(err, &liltErr) && liltErr.Suggestion != "" {
		return liltErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrNotSignedIn) || strings.Contains(errStr, "not signed in") ||
		strings.Contains(errStr, "token is expired") || strings.Contains(errStr, "signature is invalid") {
		return "Run 'lilt auth login --email you@example.com' to sign in"
	}

	if errors.Is(err, ErrNoSongSelected) {
		return "Select a song first"
	}

	if errors.Is(err, ErrSongNotFound) || strings.Contains(errStr, "song not found") {
		return "Run 'lilt songs' to see what is on the playlist"
	}

	if errors.Is(err, ErrFavoritesOffline) || strings.Contains(errStr, "favorites") {
		return "Check favorites.driver and favorites.dsn in your config"
	}

	if errors.Is(err, ErrRateLimited) || strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") {
		return "Too many requests. Wait a moment and try again"
	}

	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrFeedUnavailable) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Check your internet connection and try again"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'lilt config init' to create a configuration file"
	}

	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "The station feed is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
