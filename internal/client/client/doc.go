// Package client contains the HTTP transports of the CMS client.
//
// # Overview
//
// The package provides:
//  1. ProxyClient, which trades an identity token for CMS credentials via the
//     backend proxy (ExchangeToken) and checks that the proxy is up (Ping).
//  2. CMSClient, a typed client for the subset of the content management API
//     the application needs: uploads, assets and entries.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx responses surface as *APIError. APIError unwraps to the sentinels in
// internal/common (ErrorUnauthorized, ErrorNotFound, ErrVersionConflict) so
// callers can match them with errors.Is. Network failures wrap ErrUnavailable.
// Token exchange failures are always reported as *AuthExchangeError.
//
// Concurrency & Contexts
//
// Both clients are safe for concurrent use. Every call takes a
// context.Context and honors cancellation.
package client
