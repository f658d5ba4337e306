// Package http contains the gin handlers for the service-level endpoints
// (root and health) and their OpenAPI operations.
package http
