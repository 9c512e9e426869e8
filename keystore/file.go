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

package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters matching a "light" scrypt profile: strong enough for
// an operator-unlocked hot key, not so strong that `relayer start`
// startup latency becomes noticeable.
const (
	scryptN      = 1 << 12
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

type encryptedKeyFile struct {
	Name          string `json:"name"`
	AccountPrefix string `json:"account_prefix"`
	Address       string `json:"address"`
	Salt          string `json:"salt"`
	Nonce         string `json:"nonce"`
	Ciphertext    string `json:"ciphertext"`
}

// FileKeystore is a Keystore backed by one encrypted JSON file per key
// name under Dir; each key file is decrypted with Passphrase on its
// first Get and cached.
type FileKeystore struct {
	dir        string
	passphrase string
	cache      map[string]KeyEntry
}

// NewFileKeystore opens dir, ready to decrypt key files with passphrase
// on demand.
func NewFileKeystore(dir, passphrase string) *FileKeystore {
	return &FileKeystore{dir: dir, passphrase: passphrase, cache: make(map[string]KeyEntry)}
}

// Get implements Keystore, decrypting and caching keyName's entry.
func (fk *FileKeystore) Get(keyName string) (KeyEntry, error) {
	if e, ok := fk.cache[keyName]; ok {
		return e, nil
	}
	path := filepath.Join(fk.dir, keyName+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return KeyEntry{}, fmt.Errorf("reading key %q: %w", keyName, err)
	}
	var ekf encryptedKeyFile
	if err := json.Unmarshal(raw, &ekf); err != nil {
		return KeyEntry{}, fmt.Errorf("parsing key %q: %w", keyName, err)
	}

	priv, err := fk.decrypt(ekf)
	if err != nil {
		return KeyEntry{}, fmt.Errorf("unlocking key %q: %w", keyName, err)
	}

	entry := KeyEntry{Name: ekf.Name, AccountPrefix: ekf.AccountPrefix, Address: ekf.Address, privKey: priv}
	fk.cache[keyName] = entry
	return entry, nil
}

// Add derives a keypair from mnemonic and writes it to disk encrypted
// under the keystore's passphrase, returning the new entry.
func (fk *FileKeystore) Add(keyName, accountPrefix, mnemonic string) (KeyEntry, error) {
	priv, err := deriveKey(mnemonic, "")
	if err != nil {
		return KeyEntry{}, err
	}
	address := hex.EncodeToString(priv.PubKey().SerializeCompressed()[:20])

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return KeyEntry{}, err
	}
	key, err := scrypt.Key([]byte(fk.passphrase), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return KeyEntry{}, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return KeyEntry{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return KeyEntry{}, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return KeyEntry{}, err
	}
	ciphertext := gcm.Seal(nil, nonce, priv.Serialize(), nil)

	ekf := encryptedKeyFile{
		Name:          keyName,
		AccountPrefix: accountPrefix,
		Address:       address,
		Salt:          hex.EncodeToString(salt),
		Nonce:         hex.EncodeToString(nonce),
		Ciphertext:    hex.EncodeToString(ciphertext),
	}
	data, err := json.MarshalIndent(ekf, "", "  ")
	if err != nil {
		return KeyEntry{}, err
	}
	if err := os.MkdirAll(fk.dir, 0o700); err != nil {
		return KeyEntry{}, err
	}
	path := filepath.Join(fk.dir, keyName+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return KeyEntry{}, err
	}

	entry := KeyEntry{Name: keyName, AccountPrefix: accountPrefix, Address: address, privKey: priv}
	fk.cache[keyName] = entry
	return entry, nil
}

func (fk *FileKeystore) decrypt(ekf encryptedKeyFile) (*secp256k1.PrivateKey, error) {
	salt, err := hex.DecodeString(ekf.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(ekf.Nonce)
	if err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(ekf.Ciphertext)
	if err != nil {
		return nil, err
	}

	key, err := scrypt.Key([]byte(fk.passphrase), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("wrong passphrase or corrupted key file")
	}
	return secp256k1.PrivKeyFromBytes(plaintext), nil
}

// keyFingerprint is a stable, non-secret identifier for a key file,
// computed without decrypting it.
func keyFingerprint(ekf encryptedKeyFile) string {
	sum := sha256.Sum256([]byte(ekf.Address))
	return hex.EncodeToString(sum[:8])
}
