// Package demo reproduces the race the named lock exists to prevent: many
// processes overwriting one shared file at once.
//
// A Launcher starts N worker processes. Each Worker overwrites the shared
// file with its own Payload, with or without holding the named lock. Verify
// then tells whether the file is one worker's intact payload or a mix.
package demo
