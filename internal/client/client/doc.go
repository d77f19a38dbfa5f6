// Package client talks to the PLMS HTTP API.
//
// HTTPClient keeps the auth-token session cookie in a cookie jar, so a
// successful Login authenticates later calls and Logout's expired cookie
// removes it again. Transport failures map to ErrUnavailable and HTTP
// statuses map to the package's sentinel errors:
//
//	400 → ErrInvalidInput
//	401 → ErrUnauthorized
//	403 → ErrForbidden
//	404 → ErrNotFound
//	5xx → ErrServer
package client
