// Package twennie validates, stores and publishes Twennie learning units.
// The root package re-exports the pieces most callers need; the HTTP site
// lives in internal/site and is started with cmd/twennie.
package twennie

import (
	"context"

	"github.com/goliatone/go-twennie/pkg/apidoc"
	"github.com/goliatone/go-twennie/pkg/unit"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// Schema describes one content type.
type Schema = unit.Schema

// Field is a single input of a content type.
type Field = unit.Field

// Catalog is the registry of content types.
type Catalog = unit.Catalog

// Submission is the raw field map validated against a schema.
type Submission = validation.Submission

// Result is the outcome of validating a submission.
type Result = validation.Result

// Issue is one violated constraint.
type Issue = validation.Issue

// DefaultCatalog returns a catalog with every built-in content type.
func DefaultCatalog() *Catalog {
	return unit.DefaultCatalog()
}

// Validate coerces sub and checks it against the built-in schema for kind.
func Validate(kind string, sub Submission) (Submission, Result) {
	return validation.Validate(kind, sub)
}

// Messages returns the human-readable errors for sub; empty means valid.
func Messages(kind string, sub Submission) []string {
	_, result := validation.Validate(kind, sub)
	return result.Messages()
}

// OpenAPI returns the submission API document for catalog as JSON. A nil
// catalog uses the built-in content types.
func OpenAPI(ctx context.Context, catalog *Catalog) ([]byte, error) {
	if catalog == nil {
		catalog = unit.DefaultCatalog()
	}
	return apidoc.JSON(ctx, catalog)
}
