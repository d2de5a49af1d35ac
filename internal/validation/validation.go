// Package validation checks request payloads against the embedded JSON
// schemas and checks field formats the schemas cannot express.
package validation

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/qri-io/jsonschema"

	"github.com/clay099/work-order-backend/internal/apperror"
)

// Schema names, one per embedded file.
const (
	User            = "user"
	UserUpdate      = "user_update"
	Tradesman       = "tradesman"
	TradesmanUpdate = "tradesman_update"
	Login           = "login"
	Project         = "project"
	ProjectUpdate   = "project_update"
	Bid             = "bid"
	BidUpdate       = "bid_update"
	Chat            = "chat"
	ChatUpdate      = "chat_update"
	Photo           = "photo"
	PhotoUpdate     = "photo_update"
	Review          = "review"
	ReviewUpdate    = "review_update"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds the compiled schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
	fields  *validator.Validate
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	v := &Validator{schemas: make(map[string]*jsonschema.Schema), fields: validator.New()}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return v, nil
}

// MustNew is New for process start-up and tests.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks raw against the named schema. Failures come back as one
// Validation error carrying a message per offending field.
func (v *Validator) Validate(ctx context.Context, name string, raw []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	keyErrs, err := rs.ValidateBytes(ctx, raw)
	if err != nil {
		return apperror.BadRequest("request body must be a JSON object")
	}
	if len(keyErrs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(keyErrs))
	for _, ke := range keyErrs {
		msgs = append(msgs, describe(ke))
	}
	return apperror.Validation(msgs...)
}

// describe renders a key error as "instance.<field> <message>".
func describe(ke jsonschema.KeyError) string {
	field := strings.Trim(strings.ReplaceAll(ke.PropertyPath, "/", "."), ".")
	if field == "" {
		return "instance " + ke.Message
	}
	return "instance." + field + " " + ke.Message
}

// Email rejects a malformed address with "<email> is not a valid email".
func (v *Validator) Email(email string) error {
	if err := v.fields.Var(email, "required,email"); err != nil {
		return apperror.BadRequest("%s is not a valid email", email)
	}
	return nil
}
