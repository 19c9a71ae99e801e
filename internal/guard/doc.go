// Package guard rejects concurrent audit invocations through a single-flight
// marker held for the duration of one invocation.
package guard
