// Package services contains the application services of the CMS client.
//
// AuthService logs in and fills the session, AssetService runs the image
// upload pipeline, EntryService creates, publishes, lists and deletes posts,
// and DraftService keeps the current draft on disk. All services read the
// credential from a *session.Session on every call and refuse to talk to the
// CMS when no one is logged in.
package services
