package hasher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/structgraph/structgraph/internal/hasher"
)

func TestDigest_Deterministic(t *testing.T) {
	a := hasher.Digest([]byte("package foo\n"))
	b := hasher.Digest([]byte("package foo\n"))
	assert.Equal(t, a, b)
}

func TestDigest_SingleByteChange(t *testing.T) {
	a := hasher.Digest([]byte("class Foo {}"))
	b := hasher.Digest([]byte("class Fop {}"))
	assert.NotEqual(t, a, b)
}

func TestDigest_Is128Bits(t *testing.T) {
	d := hasher.Digest([]byte("anything"))
	assert.Len(t, d, 32) // 16 bytes hex-encoded
}

func TestDigest_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		hasher.Digest(nil)
		hasher.Digest([]byte{})
	})
}
