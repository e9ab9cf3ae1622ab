// Package app wires application dependencies for the CLI.
//
// Load reads Config from the home directory and the environment; NewWire
// builds the logger, backend clients, file stores and services from it and
// exposes them via the Wire struct for commands to use.
package app
