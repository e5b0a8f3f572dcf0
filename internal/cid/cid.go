// Package cid computes IPFS v0 content identifiers of raw documents.
package cid

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"
)

const (
	// multihash code of sha2-256
	sha256Code = 0x12
	sha256Size = 0x20
)

var (
	ErrInvalidCID = errors.New("cid: not a v0 identifier")
)

// Sum CIDv0 of content: base58btc(0x12 0x20 ‖ sha256(content))
func Sum(content []byte) string {
	digest := sha256.Sum256(content)
	mh := make([]byte, 0, 2+sha256Size)
	mh = append(mh, sha256Code, sha256Size)
	mh = append(mh, digest[:]...)
	return base58.Encode(mh)
}

// Digest decode a CIDv0 back to its sha256 digest
func Digest(cid string) ([]byte, error) {
	if len(cid) != 46 || cid[:2] != "Qm" {
		return nil, ErrInvalidCID
	}

	mh, err := base58.Decode(cid)
	if err != nil {
		return nil, ErrInvalidCID
	}

	if len(mh) != 2+sha256Size || mh[0] != sha256Code || mh[1] != sha256Size {
		return nil, ErrInvalidCID
	}

	return mh[2:], nil
}

// Verify content hashes to cid
func Verify(cid string, content []byte) bool {
	digest, err := Digest(cid)
	if err != nil {
		return false
	}

	sum := sha256.Sum256(content)
	return bytes.Equal(digest, sum[:])
}
