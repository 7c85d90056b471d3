// Package drafts persists the entry draft being composed so that it survives
// a restart of the CLI. There is exactly one current draft.
package drafts
