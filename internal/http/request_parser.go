// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data: method gating, form parsing, and extraction of the positional and
// window parameters the record operations take.

package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for GET-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

// ParsePosition extracts a zero-based record position from the named form
// value. The ok result is false when the value is missing or not a number;
// range checking is left to the service, which knows the record count.
func ParsePosition(r *http.Request, field string) (int, bool) {
	v := strings.TrimSpace(r.Form.Get(field))
	if v == "" {
		return 0, false
	}
	pos, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return pos, true
}

// ReportWindow names a time window for the report view.
type ReportWindow string

const (
	WindowMonth ReportWindow = "month"
	WindowYear  ReportWindow = "year"
	WindowAll   ReportWindow = "all"
)

// ParseReportWindow reads the window query parameter, defaulting to the
// current month. Unknown values fall back to the default rather than
// erroring so a hand-edited URL still renders something useful.
func ParseReportWindow(r *http.Request) ReportWindow {
	switch ReportWindow(strings.TrimSpace(r.URL.Query().Get("window"))) {
	case WindowYear:
		return WindowYear
	case WindowAll:
		return WindowAll
	default:
		return WindowMonth
	}
}

// WindowLabel renders the window as a heading fragment for the given now.
func WindowLabel(window ReportWindow, now time.Time) string {
	switch window {
	case WindowYear:
		return now.Format("2006")
	case WindowAll:
		return "all time"
	default:
		return now.Format("January 2006")
	}
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
