// Package apidoc describes the unit submission API as an OpenAPI 3 document.
//
// Build derives one POST operation per registered content type from the
// catalog, translating field rules into JSON Schema constraints:
//
//	required   -> required property
//	minLength  -> minLength
//	maxLength  -> maxLength
//	enum       -> enum
//	checkbox   -> boolean
//	array      -> array of strings
//	badge      -> object {image, name}
//
// Operations parses a serialised document back into a flat summary used by
// the CLI and tests to check what a client would see.
package apidoc
