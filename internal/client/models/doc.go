// Package models defines the content types the client works with: the CMS
// credential, the draft being composed, uploaded assets and entry summaries.
package models
