// Package template defines the template engine contract page renderers depend
// on. The pongo2-backed implementation lives in the gotemplate subpackage;
// tests and callers can substitute their own TemplateRenderer.
package template
