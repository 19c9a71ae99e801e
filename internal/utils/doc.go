// Package utils provides shared infrastructure for the command-line
// application: a Viper-backed configuration loader, a zap logger factory,
// and a typed accessor for values carried through command contexts.
package utils
