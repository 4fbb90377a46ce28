package scraper

import (
	"errors"
	"fmt"
)

// ErrInvalidURL indicates the input URL does not belong to the expected
// site. It is fatal: the orchestrator rejects it without retrying.
type ErrInvalidURL struct {
	URL string
}

func (e ErrInvalidURL) Error() string {
	return fmt.Sprintf("invalid_url: %s is not a profile page on the expected site", e.URL)
}

// ErrSession indicates the browser session could not be created.
type ErrSession struct {
	Err error
}

func (e ErrSession) Error() string {
	return fmt.Errorf("session: %w", e.Err).Error()
}

func (e ErrSession) Unwrap() error {
	return e.Err
}

// ErrNavigation indicates a timeout or failure while loading the page or
// waiting for the reviews anchor.
type ErrNavigation struct {
	Err error
}

func (e ErrNavigation) Error() string {
	return fmt.Errorf("navigation: %w", e.Err).Error()
}

func (e ErrNavigation) Unwrap() error {
	return e.Err
}

// ErrRedirect indicates the page identity drifted away from the expected
// profile-page pattern, e.g. into a booking sub-flow.
type ErrRedirect struct {
	URL string
}

func (e ErrRedirect) Error() string {
	return fmt.Sprintf("redirect: page identity drifted to %s", e.URL)
}

// ErrBrowser indicates a driver-level failure during clicks or extraction.
type ErrBrowser struct {
	Err error
}

func (e ErrBrowser) Error() string {
	return fmt.Errorf("browser: %w", e.Err).Error()
}

func (e ErrBrowser) Unwrap() error {
	return e.Err
}

// ErrSave indicates the result snapshot could not be persisted. It is
// reported through logs and metrics only; persistence never fails a scrape.
type ErrSave struct {
	Err error
}

func (e ErrSave) Error() string {
	return fmt.Errorf("save: %w", e.Err).Error()
}

func (e ErrSave) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var invalidURL ErrInvalidURL
	if errors.As(err, &invalidURL) {
		return "invalid_url"
	}
	var session ErrSession
	if errors.As(err, &session) {
		return "session"
	}
	var navigation ErrNavigation
	if errors.As(err, &navigation) {
		return "navigation"
	}
	var redirect ErrRedirect
	if errors.As(err, &redirect) {
		return "redirect"
	}
	var browser ErrBrowser
	if errors.As(err, &browser) {
		return "browser"
	}
	var save ErrSave
	if errors.As(err, &save) {
		return "save"
	}
	return "other"
}
