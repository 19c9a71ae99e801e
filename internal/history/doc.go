// Package history journals audit invocations in a local SQLite database and
// exposes the history command for listing recent runs.
package history
