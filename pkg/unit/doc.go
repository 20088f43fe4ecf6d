// Package unit describes the content types ("units") Twennie accepts from
// contributors. Each content type is a Schema: an ordered list of Fields with
// declarative ValidationRules (required, minLength/maxLength, enum, pairing,
// array, checkbox, consent). The validation engine, the form templates and the
// OpenAPI builder all read the same catalogue, so a rule declared here shows up
// as an error message, an HTML attribute and a JSON schema constraint.
//
// Field order is significant: validators emit issues in declaration order.
package unit
