package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// TableHash identifies raw table content; safe to memoize by.
type TableHash Hash

// NewTableHash creates a TableHash from data
func NewTableHash(data []byte) TableHash { return TableHash(NewHash(data)) }

// String returns the string representation
func (h TableHash) String() string { return Hash(h).String() }

// ComputeTableHash hashes ordered rows of ordered cells. Cell and row
// boundaries are delimited so ["ab","c"] and ["a","bc"] hash differently.
func ComputeTableHash(rows [][]string) TableHash {
	var data strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			data.WriteString(cell)
			data.WriteByte(0x1f) // unit separator
		}
		data.WriteByte(0x1e) // record separator
	}
	return NewTableHash([]byte(data.String()))
}
