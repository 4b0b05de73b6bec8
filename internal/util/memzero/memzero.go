// Package memzero wipes secret key material from memory.
package memzero

import "runtime"

// Zero overwrites every buffer with zeros. It is best-effort: copies the
// runtime made earlier (stack growth, slice reallocation) are not reached.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
		runtime.KeepAlive(b)
	}
}
