// Package site wires the Twennie website: a chi router serving the content
// type forms, unit pages, preference endpoints, the OpenAPI document and the
// embedded static scripts.
//
// Submissions are accepted as urlencoded forms or JSON. Browser posts get a
// 303 redirect or the re-rendered form with inline errors; JSON clients get
// 201 {"id","redirect"} or 422 {"errors","fields","form"}.
package site
