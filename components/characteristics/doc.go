// Package characteristics serves the suggestion list behind the
// characteristics multi-select as JSON options.
//
// The handler answers GET and HEAD with {"data": [{"value", "label"}]}
// filtered by the q parameter. Prefix matches sort before substring matches.
// The default list is embedded from data/characteristics.txt.
package characteristics
