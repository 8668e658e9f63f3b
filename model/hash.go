package model

import "lukechampine.com/blake3"

// blake3Hash returns the 32-byte blake3 digest of buf.
func blake3Hash(buf []byte) [32]byte {
	return blake3.Sum256(buf)
}

// doubleBlake3Hash returns blake3(blake3(buf)).
func doubleBlake3Hash(buf []byte) [32]byte {
	first := blake3Hash(buf)
	return blake3Hash(first[:])
}
