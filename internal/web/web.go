// Package web holds the request/response helpers every handler shares.
package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
)

// maxBody caps request payloads.
const maxBody = 1 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg} with 200.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// Error is the single place failures become responses. Undeclared errors are
// logged and hidden behind a 500.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	ae := apperror.From(err)
	if ae.Status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		logger.Debugw("request rejected", "method", r.Method, "path", r.URL.Path, "status", ae.Status, "err", err)
	}
	JSON(w, ae.Status, ae)
}

// Payload is a request body kept both raw (for schema validation) and decoded.
type Payload struct {
	Raw    []byte
	Values map[string]any
}

// Has reports whether key was sent.
func (p Payload) Has(key string) bool {
	_, ok := p.Values[key]
	return ok
}

// Int returns key as int64 when it holds an integer.
func (p Payload) Int(key string) (int64, bool) {
	switch v := p.Values[key].(type) {
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	case float64:
		return int64(v), true
	}
	return 0, false
}

// String returns key when it holds a string.
func (p Payload) String(key string) string {
	s, _ := p.Values[key].(string)
	return s
}

// ReadPayload reads and decodes a JSON object body. An empty body is an empty
// object. The body is restored so later readers see the same bytes.
func ReadPayload(r *http.Request) (Payload, error) {
	raw, err := PeekBody(r)
	if err != nil {
		return Payload{}, apperror.BadRequest("could not read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		return Payload{}, apperror.BadRequest("request body must be a JSON object")
	}
	return Payload{Raw: raw, Values: values}, nil
}

// PeekBody returns the request body and rewinds it.
func PeekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, err
}

// PathID parses a numeric route variable.
func PathID(r *http.Request, name string) (int64, error) {
	v, ok := mux.Vars(r)[name]
	if !ok {
		return 0, apperror.NotFound("Not Found")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, apperror.NotFound("Not Found")
	}
	return id, nil
}
