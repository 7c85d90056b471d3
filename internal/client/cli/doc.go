// Package cli provides the interactive command-line client of the CMS.
//
// It wires configuration, the local draft store, the CMS and proxy clients,
// the services, and a REPL. Typical flow: log in through the identity
// provider, compose a post (title, body, tags, date, images), submit it.
//
// Key features:
//   - Login / Logout (browser or paste-token)
//   - Draft editing; the draft survives restarts
//   - Image upload through the asset pipeline, orphan inspection
//   - Submit, List and Delete entries
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Ctrl-C cancels the command in flight, not the program.
package cli
