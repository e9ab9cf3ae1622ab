// Package api is the typed client for the freight marketplace REST backend.
//
// Public endpoints (settings, login, OTP, registration and reference data)
// authenticate with the application's basic-auth credentials. Everything
// user-scoped sends the session's bearer token, read from the SessionStore on
// every request so a fresh login is picked up without rebuilding the client.
//
// # Transport
//
// Requests are rate limited client side and idempotent requests (GET, PUT,
// DELETE) are retried with exponential backoff and jitter on transport errors,
// 429 and 5xx responses. Every attempt is logged at debug level and recorded
// in the metrics Recorder under the endpoint's route template.
//
// # Responses
//
// The backend wraps payloads inconsistently: bare arrays, {"data": [...]}
// and the paginated {"data": {"data": [...]}} all occur. The decode helpers
// accept each of these shapes.
package api
