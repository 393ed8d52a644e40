// Package hasher computes the content fingerprint used by the FileRegistry
// for change detection. The digest is explicitly not a cryptographic
// authentication tag (spec §4.4): any collision-resistant 128-bit digest
// suffices because it never leaves the Store.
package hasher

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// saltSeed is written (big-endian) ahead of the content in the second xxhash
// pass so the two 64-bit halves of
// the fingerprint are independent digests of the same content rather than
// the same 64 bits duplicated.
const saltSeed uint64 = 0x9E3779B97F4A7C15

// Digest returns the hex-encoded 128-bit content fingerprint for content:
// two independent 64-bit xxhash digests concatenated.
func Digest(content []byte) string {
	lo := xxhash.Sum64(content)

	salted := xxhash.New()
	var saltBuf [8]byte
	binary.BigEndian.PutUint64(saltBuf[:], saltSeed)
	salted.Write(saltBuf[:])
	salted.Write(content)
	hi := salted.Sum64()

	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], lo)
	binary.BigEndian.PutUint64(buf[8:16], hi)
	return hex.EncodeToString(buf[:])
}
