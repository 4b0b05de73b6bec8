// Package app wires application dependencies for the CLI.
//
// It builds the logger, snapshot and mnemonic stores, the hardware device
// transport and the services from Config, exposing them via the Wire struct
// for commands to use.
package app
