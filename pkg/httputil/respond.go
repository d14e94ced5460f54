package httputil

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// MaxBodyBytes bounds request bodies read with [ReadBody].
const MaxBodyBytes = 4 << 20

// ErrCodeBodyTooLarge marks request bodies over [MaxBodyBytes].
const ErrCodeBodyTooLarge errors.Code = "BODY_TOO_LARGE"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// ReadBody reads at most [MaxBodyBytes] from r.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.Wrap(ErrCodeBodyTooLarge, err, "request body exceeds %d bytes", MaxBodyBytes)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read request body")
	}
	return data, nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
// Internal errors are reported without their message.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	WriteJSON(w, status, ErrorBody{Code: code, Message: msg})
	return status
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeUnknownKind,
		errors.ErrCodeUnresolvedReference,
		errors.ErrCodeInvalidStepping,
		errors.ErrCodeInvalidWidth,
		errors.ErrCodeUnknownPort,
		errors.ErrCodeFamilyGap,
		errors.ErrCodeInvalidName,
		errors.ErrCodeDuplicateName,
		errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidManifest,
		errors.ErrCodeUnknownGenerator:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
