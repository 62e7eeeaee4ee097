package solana

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// Keypair wraps an ed25519 keypair decoded from the base58 64-byte secret
// format Solana wallets export.
type Keypair struct {
	priv ed25519.PrivateKey
}

// KeypairFromBase58 decodes a base58 private key. The encoded form is the
// 64-byte concatenation of seed and public key.
func KeypairFromBase58(encoded string) (*Keypair, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 private key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: got %d bytes, want %d", len(raw), ed25519.PrivateKeySize)
	}
	return &Keypair{priv: ed25519.PrivateKey(raw)}, nil
}

// PublicKey returns the 32-byte public key.
func (k *Keypair) PublicKey() []byte {
	return k.priv.Public().(ed25519.PublicKey)
}

// Address returns the base58 form of the public key.
func (k *Keypair) Address() string {
	return base58.Encode(k.PublicKey())
}

// AddressPreview returns a truncated address safe to show in the UI.
func (k *Keypair) AddressPreview() string {
	addr := k.Address()
	if len(addr) <= 16 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-8:]
}

// Sign signs the message with the private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}
