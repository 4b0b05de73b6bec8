// Package main runs the device bridge: an HTTP server in front of an emulated
// hardware wallet, used by walletcore during development and tests in place
// of a real Ledger.
//
// HTTP API
//
//	GET /device
//	    Return the device's factor source id and model.
//
//	POST /derive { "factorSourceID": ..., "paths": [...] }
//	    Return the public key at each path, in order. 409 when the id names a
//	    different device, 400 for paths the device cannot derive.
//
// Behaviour
//
//   - The emulated device derives from its own mnemonic, given by --mnemonic
//     or WALLETCORE_BRIDGE_MNEMONIC. Without one a fresh mnemonic is generated
//     and printed once.
//   - --latency delays every request to imitate a user confirming on the
//     device; clients that cancel their request abort the wait.
//   - An access log records method, path, status and duration per request.
//   - The default listen address is 127.0.0.1:8732.
//
// The bridge holds a mnemonic in memory and must only be used for testing.
package main
