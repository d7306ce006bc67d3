// Package api provides the HTTP handlers for reviews, the vocabulary catalog
// and user profiles.
//
// Handlers decode and validate requests, call the service layer, and map
// service errors to status codes through MapErrorToStatusCode and
// GetSafeErrorMessage so internal details never reach the client. The
// authenticated user ID is placed in the request context by
// middleware.AuthMiddleware.
package api
