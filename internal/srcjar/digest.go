// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package srcjar

import (
	"fmt"
	"strings"

	"golang.org/x/mod/sumdb/dirhash"
	"golang.org/x/mod/sumdb/note"
)

// Digest returns the content hash ("h1:" form) of the archive at p.
func Digest(p string) (string, error) {
	return dirhash.HashZip(p, dirhash.Hash1)
}

// DigestLine formats the digest record for an archive, it is terminated by a
// newline as required for note text.
func DigestLine(name string, digest string) string {
	return fmt.Sprintf("%s %s\n", name, digest)
}

// SignDigest returns a signed note holding the digest line, skey is a note
// signer key as generated by note.GenerateKey.
func SignDigest(line string, skey string) ([]byte, error) {
	signer, err := note.NewSigner(strings.TrimSpace(skey))

	if err != nil {
		return nil, fmt.Errorf("invalid signing key, %w", err)
	}

	return note.Sign(&note.Note{Text: line}, signer)
}

// VerifyDigest checks a signed note against a verifier key and returns its
// digest line.
func VerifyDigest(msg []byte, vkey string) (string, error) {
	verifier, err := note.NewVerifier(strings.TrimSpace(vkey))

	if err != nil {
		return "", fmt.Errorf("invalid verifier key, %w", err)
	}

	n, err := note.Open(msg, note.VerifierList(verifier))

	if err != nil {
		return "", err
	}

	return n.Text, nil
}
