// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package keyring

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Env resolves keys from the process environment, an optional prefix is
// prepended to every key.
type Env struct {
	Prefix string
}

func (e Env) Lookup(key string) (string, error) {
	if val, ok := os.LookupEnv(e.Prefix + key); ok {
		return val, nil
	}

	return "", notFound(key)
}

// LoadDotEnv parses one or more .env files, later files override earlier
// ones.
func LoadDotEnv(paths ...string) (Static, error) {
	vars, err := godotenv.Read(paths...)

	if err != nil {
		return nil, fmt.Errorf("could not read %s, %w", strings.Join(paths, ","), err)
	}

	return Static(vars), nil
}

// Dir resolves each key from the file of the same name within a directory,
// trailing newlines are discarded.
type Dir string

func (d Dir) Lookup(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key name %q", key)
	}

	buf, err := os.ReadFile(filepath.Join(string(d), key))

	if os.IsNotExist(err) {
		return "", notFound(key)
	}

	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(buf), "\r\n"), nil
}
