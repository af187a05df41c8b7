package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	// ErrQuotaExceeded means the credential used for the request hit its
	// quota; recoverable by rotating to another credential.
	ErrQuotaExceeded = errors.New("credential quota exceeded")

	// ErrServiceOverloaded means the upstream model is overloaded;
	// recoverable after a pool-wide backoff.
	ErrServiceOverloaded = errors.New("translation service overloaded")

	// ErrNoCredentials means every credential is exhausted or none were
	// configured; callers fall back to serving source text.
	ErrNoCredentials = errors.New("no credentials available")
)

// ParseError reports a model response that did not match the numbered
// list grammar expected for a batch.
type ParseError struct {
	Expected int
	Got      int
	Line     string
}

func (e *ParseError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("unparseable response line %q (parsed %d of %d)", e.Line, e.Got, e.Expected)
	}
	return fmt.Sprintf("expected %d translations, parsed %d", e.Expected, e.Got)
}

// classifyAPIError maps an upstream API failure into the pool taxonomy.
// The generative client surfaces *googleapi.Error for HTTP failures;
// anything else falls back to message sniffing before being returned as-is.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return ErrQuotaExceeded
		case http.StatusServiceUnavailable:
			return ErrServiceOverloaded
		}
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return ErrQuotaExceeded
	case strings.Contains(msg, "503") || strings.Contains(msg, "overloaded"):
		return ErrServiceOverloaded
	}
	return err
}
