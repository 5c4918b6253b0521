// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package keyring resolves API keys and secrets by name.
package keyring

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every provider lookup for an unknown key.
var ErrNotFound = errors.New("key not found")

// Provider represents a source of named credentials.
type Provider interface {
	Lookup(key string) (string, error)
}

// LookupError reports a key that could not be resolved.
type LookupError struct {
	Key string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not resolve %s, %v", e.Key, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func notFound(key string) error {
	return fmt.Errorf("%s: %w", key, ErrNotFound)
}

// Chain queries providers in order, the first one holding the key wins.
type Chain []Provider

func (c Chain) Lookup(key string) (string, error) {
	for _, p := range c {
		val, err := p.Lookup(key)

		switch {
		case err == nil:
			return val, nil
		case errors.Is(err, ErrNotFound):
			continue
		default:
			return "", err
		}
	}

	return "", notFound(key)
}

// Static holds credentials in memory.
type Static map[string]string

func (s Static) Lookup(key string) (string, error) {
	if val, ok := s[key]; ok {
		return val, nil
	}

	return "", notFound(key)
}
