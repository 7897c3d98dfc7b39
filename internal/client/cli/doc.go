// Package cli provides the interactive recipekeeper command-line client.
//
// It wires configuration, the local recipe cache, backend services and an
// interactive REPL. Typical flow: paste an access token, check the token
// balance, import recipes from links, photos or PDFs, and browse them
// online or from the cache.
//
// Key features:
//   - Login / Logout (bearer token, cache wiped on logout)
//   - Token balance, purchases and restore
//   - Import from a website or video link, with optional start/end times
//   - Import from photos or a PDF
//   - List / Show recipes, with offline fallback
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// Ctrl-C during an import cancels it; see App.runImport.
package cli
