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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMnemonicIsValid(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	require.True(t, bip39Valid(m))
}

func bip39Valid(m string) bool {
	_, err := deriveKey(m, "")
	return err == nil
}

func TestFileKeystoreAddAndGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	ks := NewFileKeystore(dir, "correct horse battery staple")

	mnemonic, err := NewMnemonic()
	require.NoError(t, err)

	added, err := ks.Add("relayer-key", "cosmos", mnemonic)
	require.NoError(t, err)
	require.Equal(t, "relayer-key", added.Name)

	fresh := NewFileKeystore(dir, "correct horse battery staple")
	got, err := fresh.Get("relayer-key")
	require.NoError(t, err)
	require.Equal(t, added.Address, got.Address)
	require.Equal(t, added.PubKeyCompressed(), got.PubKeyCompressed())
}

func TestFileKeystoreGetWrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	ks := NewFileKeystore(dir, "right-passphrase")
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)
	_, err = ks.Add("relayer-key", "cosmos", mnemonic)
	require.NoError(t, err)

	wrong := NewFileKeystore(dir, "wrong-passphrase")
	_, err = wrong.Get("relayer-key")
	require.Error(t, err)
}

func TestKeyEntrySignProducesNonEmptySignature(t *testing.T) {
	dir := t.TempDir()
	ks := NewFileKeystore(dir, "pw")
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)
	entry, err := ks.Add("k", "cosmos", mnemonic)
	require.NoError(t, err)

	sig, err := entry.Sign([]byte("hello world"))
	require.NoError(t, err)
	require.NotEmpty(t, sig)
}
