package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/meldgrid/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[errors.Code]int{
	errors.ErrCodeInvalidInput:       http.StatusBadRequest,
	errors.ErrCodeInvalidLayout:      http.StatusUnprocessableEntity,
	errors.ErrCodeInvalidConfig:      http.StatusBadRequest,
	errors.ErrCodeInvalidFormat:      http.StatusBadRequest,
	errors.ErrCodeInvalidName:        http.StatusBadRequest,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodePlacementExhausted: http.StatusConflict,
	errors.ErrCodeCollision:          http.StatusConflict,
	errors.ErrCodeStoreUnavailable:   http.StatusServiceUnavailable,
	errors.ErrCodeInternal:           http.StatusInternalServerError,
	errors.ErrCodeUnsupported:        http.StatusNotImplemented,
}

// statusFor maps an error to an HTTP status. Errors without a code are 500.
func statusFor(err error) int {
	if st, ok := statusByCode[errors.GetCode(err)]; ok {
		return st
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const (
	contentTypeJSON = "application/json"
	contentTypeSVG  = "image/svg+xml"
	contentTypeDOT  = "text/vnd.graphviz; charset=utf-8"
)

// blob is a pre-encoded response body.
type blob struct {
	contentType string
	data        []byte
}

// respond writes body according to its type: nil sends only the status,
// []byte is sent as JSON, a blob as-is and anything else is JSON-encoded.
func respond(w http.ResponseWriter, status int, body any) {
	switch b := body.(type) {
	case nil:
		w.WriteHeader(status)
	case []byte:
		respond(w, status, blob{contentType: contentTypeJSON, data: b})
	case blob:
		w.Header().Set("Content-Type", b.contentType)
		w.WriteHeader(status)
		_, _ = w.Write(b.data)
	default:
		writeJSON(w, status, b)
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

func badRequest(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}
