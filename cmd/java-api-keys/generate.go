// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/usbarmory/api-keys/assets"
	"github.com/usbarmory/api-keys/internal/javagen"
	"github.com/usbarmory/api-keys/internal/keyring"
	"github.com/usbarmory/api-keys/internal/manifest"
	"github.com/usbarmory/api-keys/internal/srcjar"
)

func (c *Config) check() error {
	switch {
	case c.out == "" && c.srcjar == "":
		return fmt.Errorf("%w, -out or -srcjar is required", errUsage)
	case c.digest != "" && c.srcjar == "":
		return fmt.Errorf("%w, -digest requires -srcjar", errUsage)
	case c.noteKey != "" && c.digest == "":
		return fmt.Errorf("%w, -note-key requires -digest", errUsage)
	}

	return nil
}

func (c *Config) loadManifest() (m *manifest.Manifest, err error) {
	if c.manifest != "" {
		if m, err = manifest.Load(c.manifest); err != nil {
			return
		}
	} else {
		m = manifest.Default()
	}

	if c.pkg != "" {
		m.Package = c.pkg
	}

	if c.class != "" {
		m.Class = c.class
	}

	if c.source != "" {
		m.Source = c.source
	}

	if c.script != "" {
		m.Script = c.script
	}

	return
}

func (c *Config) provider() (keyring.Provider, error) {
	chain := keyring.Chain{keyring.Env{}}

	if len(c.envFiles) > 0 {
		p, err := keyring.LoadDotEnv(c.envFiles...)

		if err != nil {
			return nil, err
		}

		chain = append(chain, p)
	}

	if c.keysDir != "" {
		if info, err := os.Stat(c.keysDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("invalid key directory %s", c.keysDir)
		}

		chain = append(chain, keyring.Dir(c.keysDir))
	}

	if c.keystore != "" {
		passphrase, err := keyring.ReadPassphrase(c.passphraseFile)

		if err != nil {
			return nil, err
		}

		s, err := keyring.OpenSealed(c.keystore, passphrase)

		if err != nil {
			return nil, fmt.Errorf("could not open %s, %w", c.keystore, err)
		}

		chain = append(chain, s)
	}

	return chain, nil
}

func generate(c *Config) (err error) {
	if err = c.check(); err != nil {
		return
	}

	m, err := c.loadManifest()

	if err != nil {
		return
	}

	p, err := c.provider()

	if err != nil {
		return
	}

	cs, err := keyring.Resolve(p, m.Constants, keyring.ResolveOptions{
		Strict:  c.strict,
		Default: assets.DummyToken,
	})

	if err != nil {
		return
	}

	meta := m.Metadata()
	text, err := javagen.Render(cs, meta)

	if err != nil {
		return
	}

	if c.out != "" {
		if err = javagen.WritePlain(c.out, text); err != nil {
			return
		}

		glog.Infof("wrote %s (%d constants)", c.out, len(cs))
	}

	if c.srcjar != "" {
		entry := javagen.EntryPath(meta)

		if err = srcjar.WriteArchive(c.srcjar, entry, text); err != nil {
			return
		}

		glog.Infof("wrote %s (%s)", c.srcjar, entry)
	}

	if c.digest != "" {
		return c.writeDigest()
	}

	return
}

func (c *Config) writeDigest() (err error) {
	digest, err := srcjar.Digest(c.srcjar)

	if err != nil {
		return fmt.Errorf("could not hash %s, %w", c.srcjar, err)
	}

	line := srcjar.DigestLine(filepath.Base(c.srcjar), digest)
	out := []byte(line)

	if c.noteKey != "" {
		skey, err := os.ReadFile(c.noteKey)

		if err != nil {
			return err
		}

		if out, err = srcjar.SignDigest(line, string(skey)); err != nil {
			return err
		}
	}

	if err = javagen.WritePlain(c.digest, out); err != nil {
		return
	}

	glog.Infof("wrote %s (%s)", c.digest, digest)

	return
}
