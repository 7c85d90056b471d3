// Package common contains shared constants and sentinel errors used across
// the partusch-cms client and proxy.
package common

// HTTP header names used on CMS and proxy requests.
const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	AcceptHeaderName        = "Accept"
	RequestIDHeaderName     = "X-Request-Id"

	// CMSVersionHeaderName carries the optimistic-concurrency version of the
	// resource being changed.
	CMSVersionHeaderName = "X-Contentful-Version"
	// CMSContentTypeHeaderName selects the content model of a new entry.
	CMSContentTypeHeaderName = "X-Contentful-Content-Type"
)

// BearerPrefix precedes tokens in the Authorization header.
const BearerPrefix = "Bearer "

const (
	MIMEOctetStream = "application/octet-stream"
	MIMEJSON        = "application/json"
	MIMECMSJSON     = "application/vnd.contentful.management.v1+json"
)
