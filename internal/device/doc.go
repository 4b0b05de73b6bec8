// Package device provides implementations of the domain.DeviceTransport
// interface used to derive keys on hardware wallets.
//
// Emulator stands in for a Ledger: it derives public keys from its own
// mnemonic, optionally after an artificial delay that honours the caller's
// context. HTTPClient talks JSON to a device bridge, and Handler serves that
// protocol for any transport.
//
// HTTP API
//
//	GET /device
//	    Return the connected device's HardwareDeviceInfo.
//
//	POST /derive {"factorSourceID": ..., "paths": [...]}
//	    Derive one public key per path, in order.
//
// Non-2xx statuses carry a short error message. 409 means the connected
// device is not the requested factor source.
package device
