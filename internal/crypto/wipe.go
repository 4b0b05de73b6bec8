package crypto

import "walletcore/internal/util/memzero"

// Wipe zeroes each buffer. It is best-effort: copies made by the runtime are
// not reached.
func Wipe(bufs ...[]byte) { memzero.Zero(bufs...) }
