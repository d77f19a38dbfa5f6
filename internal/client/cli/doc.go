// Package cli implements the interactive PLMS command-line client.
//
// The prompt mirrors the session state: before login only login, help and
// exit are offered. Once authenticated the user can list and add tools,
// show who they are signed in as, and log out. Login failures are reported
// without the server's wording.
package cli
