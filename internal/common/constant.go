package common

// SessionCookieName is the cookie carrying the signed session token between
// the browser (or CLI client) and the server.
const SessionCookieName = "auth-token"

// RequestIDHeaderName carries the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"
