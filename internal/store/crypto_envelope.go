package store

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// sealedFormatVersion is the newest sealed blob format this build reads.
const sealedFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// sealed file has been modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted session file")

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// kdf holds scrypt cost parameters.
type kdf struct{ N, r, p int }

// defaultKDF is interactive-strength scrypt.
var defaultKDF = kdf{N: 1 << 15, r: 8, p: 1}

// seal derives a key from passphrase and encrypts raw into a JSON blob.
func seal(passphrase string, raw []byte, params kdf) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], params.N, params.r, params.p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; every seal uses a fresh salt-derived key
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(blob{
		V:      sealedFormatVersion,
		Salt:   salt[:],
		N:      params.N,
		R:      params.r,
		P:      params.p,
		Cipher: ct,
	})
}

// open decrypts a blob produced by seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("decode sealed file: %w", err)
	}
	if bl.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported sealed file version %d", bl.V)
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// wipe clears a derived key once the cipher no longer needs it.
func wipe(b []byte) {
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
