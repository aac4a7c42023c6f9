// Package cli implements the interactive songkeeper command-line client.
//
// The REPL reads one command per line. Browsing songs works anonymously;
// adding records and listing your own needs a login, because the server
// checks the owner and guards per-user routes with a bearer token.
package cli
