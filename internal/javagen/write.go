// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package javagen

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// EntryPath returns the slash separated source path of the generated class,
// as expected within a source archive.
func EntryPath(meta Metadata) string {
	return path.Join(strings.ReplaceAll(meta.Package, ".", "/"), meta.Class+".java")
}

// WritePlain writes text to p, creating any missing parent directory and
// replacing any previous content.
func WritePlain(p string, text []byte) (err error) {
	if dir := filepath.Dir(p); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create %s, %w", dir, err)
		}
	}

	f, err := os.Create(p)

	if err != nil {
		return
	}

	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if _, err = f.Write(text); err != nil {
		return fmt.Errorf("could not write %s, %w", p, err)
	}

	return
}
