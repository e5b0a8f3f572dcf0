package chain

import (
	"crypto/ecdsa"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ParsePrivateKey hex key with or without the 0x prefix
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return key, nil
}

// Keyring signing keys by address
type Keyring struct {
	keys map[common.Address]*ecdsa.PrivateKey
}

// NewKeyring parse hex keys, duplicates collapse
func NewKeyring(hexKeys []string) (*Keyring, error) {
	k := &Keyring{keys: map[common.Address]*ecdsa.PrivateKey{}}
	for _, s := range hexKeys {
		if s == "" {
			continue
		}

		key, err := ParsePrivateKey(s)
		if err != nil {
			return nil, err
		}

		k.keys[crypto.PubkeyToAddress(key.PublicKey)] = key
	}

	return k, nil
}

// Key signing key of addr
func (k *Keyring) Key(addr common.Address) (*ecdsa.PrivateKey, bool) {
	key, ok := k.keys[addr]
	return key, ok
}

// Addresses sorted
func (k *Keyring) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(k.keys))
	for addr := range k.keys {
		addrs = append(addrs, addr)
	}

	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Hex() < addrs[j].Hex()
	})
	return addrs
}
