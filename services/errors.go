package services

import (
	"fmt"
	"net/http"

	"site-assistant/models"
)

// ValidationError reports a missing or malformed request field
type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// AuthError reports an admin token mismatch
type AuthError string

func (err AuthError) Error() string {
	return string(err)
}

func (err AuthError) ErrCode() string {
	return "AUTH_ERROR"
}

func (err AuthError) StatusCode() int {
	return http.StatusUnauthorized
}

// UpstreamError wraps a failed call to the completion provider. Message is
// the short caller facing summary, Details carries what the provider said.
type UpstreamError struct {
	Message string
	Details string
	Status  int
	Err     error
}

func (err *UpstreamError) Error() string {
	if err.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", err.Message, err.Status, err.Details)
	}
	return fmt.Sprintf("%s: %s", err.Message, err.Details)
}

func (err *UpstreamError) Unwrap() error {
	return err.Err
}

func (err *UpstreamError) ErrCode() string {
	return "UPSTREAM_ERROR"
}

func (err *UpstreamError) StatusCode() int {
	return http.StatusInternalServerError
}

// FetchError reports a failed page retrieval during a refresh cycle
type FetchError struct {
	Topic models.Topic
	URL   string
	Err   error
}

func (err *FetchError) Error() string {
	if err.Topic != "" {
		return fmt.Sprintf("fetch %s page %s: %v", err.Topic, err.URL, err.Err)
	}
	return fmt.Sprintf("fetch %s: %v", err.URL, err.Err)
}

func (err *FetchError) Unwrap() error {
	return err.Err
}

func (err *FetchError) ErrCode() string {
	return "FETCH_ERROR"
}

func (err *FetchError) StatusCode() int {
	return http.StatusInternalServerError
}
