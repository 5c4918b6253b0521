// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"gopkg.in/yaml.v3"
)

const (
	// key derivation iteration count
	PBKDF2_ITER = 4096
	// key derivation salt size
	SALT_SIZE = 16

	// sealed store format version
	SealedVersion = 1

	// passphrase verification diversifier
	checkDiv = "api-keys-check"
)

// PassphraseEnv names the variable consulted by ReadPassphrase when no
// passphrase file is given.
const PassphraseEnv = "APIKEYS_PASSPHRASE"

var ErrPassphrase = errors.New("invalid passphrase")

type sealedFile struct {
	Version int               `yaml:"version"`
	Salt    string            `yaml:"salt"`
	Check   string            `yaml:"check"`
	Entries map[string]string `yaml:"entries"`
}

// Sealed represents a passphrase protected credential store, each value is
// encrypted with AES-256-GCM under a PBKDF2 derived key and bound to its key
// name.
type Sealed struct {
	path    string
	salt    []byte
	aead    cipher.AEAD
	entries map[string]string
}

func deriveAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, PBKDF2_ITER, 32, sha256.New)

	block, err := aes.NewCipher(key)

	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

func (s *Sealed) seal(name string, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())

	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	buf := s.aead.Seal(nonce, nonce, []byte(value), []byte(name))

	return base64.StdEncoding.EncodeToString(buf), nil
}

func (s *Sealed) open(name string, enc string) (string, error) {
	buf, err := base64.StdEncoding.DecodeString(enc)

	if err != nil {
		return "", err
	}

	n := s.aead.NonceSize()

	if len(buf) < n {
		return "", errors.New("ciphertext too short")
	}

	plaintext, err := s.aead.Open(nil, buf[:n], buf[n:], []byte(name))

	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// CreateSealed initializes an empty store at path, replacing any existing
// one.
func CreateSealed(path string, passphrase string) (s *Sealed, err error) {
	if len(passphrase) == 0 {
		return nil, ErrPassphrase
	}

	s = &Sealed{
		path:    path,
		salt:    make([]byte, SALT_SIZE),
		entries: make(map[string]string),
	}

	if _, err = io.ReadFull(rand.Reader, s.salt); err != nil {
		return
	}

	if s.aead, err = deriveAEAD(passphrase, s.salt); err != nil {
		return
	}

	return s, s.Save()
}

// OpenSealed loads the store at path, failing with ErrPassphrase if the
// passphrase does not match the one used at creation.
func OpenSealed(path string, passphrase string) (s *Sealed, err error) {
	buf, err := os.ReadFile(path)

	if err != nil {
		return
	}

	var f sealedFile

	if err = yaml.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("could not parse %s, %w", path, err)
	}

	if f.Version != SealedVersion {
		return nil, fmt.Errorf("unsupported sealed store version %d", f.Version)
	}

	s = &Sealed{
		path:    path,
		entries: f.Entries,
	}

	if s.entries == nil {
		s.entries = make(map[string]string)
	}

	if s.salt, err = base64.StdEncoding.DecodeString(f.Salt); err != nil {
		return nil, fmt.Errorf("invalid salt, %w", err)
	}

	if s.aead, err = deriveAEAD(passphrase, s.salt); err != nil {
		return
	}

	if check, err := s.open(checkDiv, f.Check); err != nil || check != checkDiv {
		return nil, ErrPassphrase
	}

	return
}

// Lookup returns the decrypted value for key.
func (s *Sealed) Lookup(key string) (string, error) {
	enc, ok := s.entries[key]

	if !ok {
		return "", notFound(key)
	}

	val, err := s.open(key, enc)

	if err != nil {
		return "", fmt.Errorf("could not decrypt %s, %w", key, err)
	}

	return val, nil
}

// Set stores value under key, Save must be called to persist it.
func (s *Sealed) Set(key string, value string) (err error) {
	if strings.TrimSpace(key) == "" {
		return errors.New("empty key name")
	}

	if key == checkDiv {
		return fmt.Errorf("reserved key name %q", key)
	}

	s.entries[key], err = s.seal(key, value)

	return
}

// Delete removes key, Save must be called to persist the removal.
func (s *Sealed) Delete(key string) error {
	if _, ok := s.entries[key]; !ok {
		return notFound(key)
	}

	delete(s.entries, key)

	return nil
}

// Keys returns all stored key names, sorted.
func (s *Sealed) Keys() (keys []string) {
	for k := range s.entries {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return
}

// Save persists the store to its path with owner only permissions.
func (s *Sealed) Save() (err error) {
	check, err := s.seal(checkDiv, checkDiv)

	if err != nil {
		return
	}

	buf, err := yaml.Marshal(&sealedFile{
		Version: SealedVersion,
		Salt:    base64.StdEncoding.EncodeToString(s.salt),
		Check:   check,
		Entries: s.entries,
	})

	if err != nil {
		return
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return
	}

	return os.WriteFile(s.path, buf, 0600)
}

// ReadPassphrase returns the content of the passphrase file, when given, or
// the value of PassphraseEnv.
func ReadPassphrase(path string) (string, error) {
	if path == "" {
		if p, ok := os.LookupEnv(PassphraseEnv); ok && p != "" {
			return p, nil
		}

		return "", fmt.Errorf("no passphrase, use a passphrase file or set %s", PassphraseEnv)
	}

	buf, err := os.ReadFile(path)

	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(buf), "\r\n"), nil
}
