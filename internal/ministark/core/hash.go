package core

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DigestSize is the byte length of every commitment and transcript digest.
const DigestSize = 32

// Digest is the fixed-size output of a Hasher. It is the unit of Merkle
// commitment and transcript absorption.
type Digest [DigestSize]byte

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	out := make([]byte, DigestSize)
	copy(out, d[:])
	return out
}

// DigestFromBytes converts a 32-byte slice into a Digest.
func DigestFromBytes(data []byte) (Digest, error) {
	var d Digest
	if len(data) != DigestSize {
		return d, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(data))
	}
	copy(d[:], data)
	return d, nil
}

// Hasher is a pluggable collision-resistant compression function. The same
// hasher instance drives Merkle hashing and transcript state updates, so a
// proof is bound to the hasher it was produced with.
type Hasher interface {
	// ID identifies the hasher in parameters and proof metadata.
	ID() byte
	// Name returns a human-readable hasher name.
	Name() string
	// Sum hashes the input to a fixed-size digest.
	Sum(data []byte) Digest
}

// Hasher IDs recognized by HasherByID.
const (
	HasherSHA3    byte = 0
	HasherSHA256  byte = 1
	HasherBLAKE2b byte = 2
)

type sha3Hasher struct{}

func (sha3Hasher) ID() byte     { return HasherSHA3 }
func (sha3Hasher) Name() string { return "sha3-256" }
func (sha3Hasher) Sum(data []byte) Digest {
	return Digest(sha3.Sum256(data))
}

type sha256Hasher struct{}

func (sha256Hasher) ID() byte     { return HasherSHA256 }
func (sha256Hasher) Name() string { return "sha256" }
func (sha256Hasher) Sum(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

type blake2bHasher struct{}

func (blake2bHasher) ID() byte     { return HasherBLAKE2b }
func (blake2bHasher) Name() string { return "blake2b-256" }
func (blake2bHasher) Sum(data []byte) Digest {
	return Digest(blake2b.Sum256(data))
}

// NewSHA3Hasher returns the default SHA3-256 hasher.
func NewSHA3Hasher() Hasher {
	return sha3Hasher{}
}

// HasherByID returns the hasher registered under the given ID.
func HasherByID(id byte) (Hasher, error) {
	switch id {
	case HasherSHA3:
		return sha3Hasher{}, nil
	case HasherSHA256:
		return sha256Hasher{}, nil
	case HasherBLAKE2b:
		return blake2bHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher id %d", id)
	}
}
