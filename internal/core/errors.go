package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy. Operations abort on the first
// failure; retry, if desired, is the caller's responsibility.
var (
	// ErrLibraryNotFound means the registry has no library with that name.
	ErrLibraryNotFound = errors.New("library not found in registry")
	// ErrRegistryUnavailable means a registry call failed in transport or
	// produced a response that could not be decoded.
	ErrRegistryUnavailable = errors.New("registry unavailable")
	// ErrNoAssetsMatched means selection produced neither scripts nor
	// stylesheets for the requested configuration.
	ErrNoAssetsMatched = errors.New("no installable assets found")
	// ErrNotInstalled means an update was requested for a library with no
	// installed record.
	ErrNotInstalled = errors.New("library is not installed")
	// ErrAlreadyAtVersion means the update target equals the installed
	// version. Treated as a user error, not success.
	ErrAlreadyAtVersion = errors.New("already at requested version")
	// ErrVersionNotFound means the requested version is not in the
	// registry's ordered version list.
	ErrVersionNotFound = errors.New("version not known to registry")
)

// RegistryErrorKind classifies why a registry call failed.
type RegistryErrorKind int

const (
	// RegistryErrUnknown is an unclassified registry failure.
	RegistryErrUnknown RegistryErrorKind = iota
	// RegistryErrNotFound means the registry has no such library or version.
	RegistryErrNotFound
	// RegistryErrUnreachable means the registry host could not be reached.
	RegistryErrUnreachable
	// RegistryErrBadResponse means the registry answered with a body that
	// could not be decoded.
	RegistryErrBadResponse
	// RegistryErrStatus means the registry answered with an unexpected
	// HTTP status.
	RegistryErrStatus
)

// String returns a human-readable label for the error kind.
func (k RegistryErrorKind) String() string {
	switch k {
	case RegistryErrNotFound:
		return "Not Found"
	case RegistryErrUnreachable:
		return "Registry Unreachable"
	case RegistryErrBadResponse:
		return "Malformed Response"
	case RegistryErrStatus:
		return "Unexpected Status"
	default:
		return "Unknown Error"
	}
}

// RegistryError is a structured error returned when a registry call fails.
// It wraps the failure with classification and actionable hints.
type RegistryError struct {
	Kind   RegistryErrorKind
	URL    string   // The request URL that was attempted
	Status int      // HTTP status, if a response was received
	Hints  []string // Actionable suggestions for the user
	cause  error
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("registry request failed (%s): %s returned %d", e.Kind, e.URL, e.Status)
	}
	if e.cause != nil {
		return fmt.Sprintf("registry request failed (%s): %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("registry request failed (%s): %s", e.Kind, e.URL)
}

// Unwrap maps the classification onto the sentinel taxonomy so callers can
// use errors.Is without inspecting kinds.
func (e *RegistryError) Unwrap() error {
	if e.Kind == RegistryErrNotFound {
		return ErrLibraryNotFound
	}
	return ErrRegistryUnavailable
}

// IsRegistryError checks whether an error is a *RegistryError and returns it.
func IsRegistryError(err error) (*RegistryError, bool) {
	var re *RegistryError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// classifyRegistryError builds a RegistryError from an HTTP outcome.
// status is zero when no response was received.
func classifyRegistryError(url string, status int, cause error) *RegistryError {
	kind := RegistryErrUnknown
	switch {
	case status == 404:
		kind = RegistryErrNotFound
	case status >= 400:
		kind = RegistryErrStatus
	case cause != nil:
		kind = RegistryErrUnreachable
	}

	return &RegistryError{
		Kind:   kind,
		URL:    url,
		Status: status,
		Hints:  hintsForRegistryError(kind),
		cause:  cause,
	}
}

// hintsForRegistryError returns user-facing suggestions per error kind.
func hintsForRegistryError(kind RegistryErrorKind) []string {
	switch kind {
	case RegistryErrNotFound:
		return []string{
			"Check the library name spelling (scoped names need their @scope/ prefix)",
			"Run 'libvend versions <name>' to see what the registry knows",
		}
	case RegistryErrUnreachable:
		return []string{
			"Check your network connection",
			"Verify the registry URL in ~/.libvend/config.json",
		}
	case RegistryErrBadResponse:
		return []string{
			"The registry URL may point at a non-registry endpoint; verify ~/.libvend/config.json",
		}
	default:
		return nil
	}
}

// DownloadFailure records one failed asset fetch.
type DownloadFailure struct {
	URL string
	Err error
}

// DownloadError reports a partial download failure: one or more asset
// fetches failed while their siblings may have succeeded and remain on
// disk. The whole operation is still aborted before commit.
type DownloadError struct {
	Total    int // number of assets in the batch
	Failures []DownloadFailure
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d asset downloads failed", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n  %s: %v", f.URL, f.Err)
	}
	return b.String()
}
