// Package validation checks contributor submissions against the content type
// schemas declared in package unit.
//
// Validation is a batch operation: every rule of the selected schema runs, and
// every violation is reported in one Result, in field declaration order. The
// engine never returns an error; callers decide success by Result.Valid (or by
// an empty Result.Messages()).
//
// Checkbox coercion is a separate pure step. Coerce returns a new Submission
// with checkbox fields turned into booleans ("on" becomes true, anything else
// false) and Check validates that normalised record. Engine.Validate runs both
// and hands the normalised record back to the caller; the input map is never
// modified.
package validation
