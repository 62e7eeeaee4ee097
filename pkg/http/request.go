package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps request bodies; every payload here is a small JSON object.
const MaxBodyBytes = 1 << 20 // 1 MiB

var ErrMissingBearer = errors.New("missing or malformed bearer token")

// DecodeJSON decodes the request body into dst, rejecting unknown fields and
// trailing garbage so malformed payloads fail at the boundary instead of
// surfacing as zero-valued fields deeper in.
func DecodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second token means the body held more than one JSON value
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// ExtractBearerToken parses the Authorization header and returns the opaque
// bearer token, or ErrMissingBearer if the header is absent or malformed.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingBearer
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMissingBearer
	}
	return parts[1], nil
}
