// Package docs builds the OpenAPI description of the HTTP API and serves it.
//
// Handlers register an Operation per route; Mount exposes the document as
// JSON and YAML together with Swagger UI and ReDoc pages that load it.
package docs
