// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

// Package keystore is a narrow external collaborator: key material is
// read from an external keystore accessed through a narrow interface,
// get(key_name) -> KeyEntry. The core never reaches past this interface.
package keystore

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip39"
)

// KeyEntry is the signing identity a ChainHandle implementation submits
// transactions with.
type KeyEntry struct {
	Name          string
	AccountPrefix string
	Address       string
	privKey       *secp256k1.PrivateKey
}

// PubKeyCompressed returns the 33-byte compressed secp256k1 public key.
func (k KeyEntry) PubKeyCompressed() []byte {
	return k.privKey.PubKey().SerializeCompressed()
}

// Sign produces a deterministic ECDSA signature over digest using the
// entry's private key. Signing goes through btcec rather than decred's
// own secp256k1/ecdsa package so the keystore exercises both libraries
// the relay engine depends on for secp256k1 material: decred's for key
// derivation, btcsuite's for the signature format chain daemons expect.
func (k KeyEntry) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		sum := sha256.Sum256(digest)
		digest = sum[:]
	}
	btcPriv := btcec.PrivKeyFromBytes(k.privKey.Serialize())
	sig := btcecdsa.Sign(btcPriv, digest)
	return sig.Serialize(), nil
}

// Keystore is the interface the relay engine's ChainHandle
// implementations use to sign outbound transactions.
type Keystore interface {
	Get(keyName string) (KeyEntry, error)
}

// deriveKey turns a BIP-39 mnemonic into a secp256k1 keypair. This is a
// simplified, non-hierarchical derivation (no BIP-32 account paths): the
// seed's first 32 bytes become the private key directly, sufficient for
// a relayer's single hot-key-per-chain usage.
func deriveKey(mnemonic, passphrase string) (*secp256k1.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	return secp256k1.PrivKeyFromBytes(seed[:32]), nil
}

// NewMnemonic generates a fresh 24-word BIP-39 mnemonic (256 bits of
// entropy), for `relayer keys add`.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}
