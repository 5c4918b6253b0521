// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package manifest describes which constants are generated, where each value
// comes from and how the generated class is named.
//
// A manifest is a YAML document:
//
//	package: org.chromium.chrome
//	class: GoogleAPIKeys
//	source: google_api_keys/google_api_keys.h
//	constants:
//	  - key: GOOGLE_API_KEY
//	  - name: GOOGLE_CLIENT_ID_MAIN
//	    key: google-client-id-main
//
// Omitted fields take the built-in defaults, a constant without name is named
// after its key in screaming snake case.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/usbarmory/api-keys/assets"
	"github.com/usbarmory/api-keys/internal/javagen"
)

var ErrInvalid = errors.New("invalid manifest")

// Entry represents a generated constant and the provider key holding its
// value.
type Entry struct {
	Name string `yaml:"name,omitempty"`
	Key  string `yaml:"key"`
}

// Manifest represents the full generation input, besides key values.
type Manifest struct {
	Package   string  `yaml:"package"`
	Class     string  `yaml:"class"`
	Source    string  `yaml:"source"`
	Script    string  `yaml:"script"`
	Constants []Entry `yaml:"constants"`
}

// document distinguishes an omitted constant list from an empty one
type document struct {
	Package   string   `yaml:"package"`
	Class     string   `yaml:"class"`
	Source    string   `yaml:"source"`
	Script    string   `yaml:"script"`
	Constants *[]Entry `yaml:"constants"`
}

// Default returns the built-in manifest.
func Default() *Manifest {
	m := &Manifest{
		Package: assets.DefaultPackage,
		Class:   assets.DefaultClass,
		Source:  assets.DefaultSource,
		Script:  assets.DefaultScript,
	}

	for _, k := range assets.Keys() {
		m.Constants = append(m.Constants, Entry{Name: k.Name, Key: k.Lookup})
	}

	return m
}

// Load parses the manifest at path, see Parse.
func Load(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	m, err := Parse(buf)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Parse decodes a YAML manifest, unknown fields are rejected and omitted
// ones are taken from Default.
func Parse(buf []byte) (m *Manifest, err error) {
	var in document

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	if err = dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w, %v", ErrInvalid, err)
	}

	m = Default()

	if in.Package != "" {
		m.Package = in.Package
	}

	if in.Class != "" {
		m.Class = in.Class
	}

	if in.Source != "" {
		m.Source = in.Source
	}

	if in.Script != "" {
		m.Script = in.Script
	}

	if in.Constants != nil {
		m.Constants = *in.Constants
	}

	if err = m.normalize(); err != nil {
		return nil, err
	}

	return
}

func (m *Manifest) normalize() error {
	if len(m.Constants) == 0 {
		return fmt.Errorf("%w, no constants", ErrInvalid)
	}

	seen := make(map[string]bool)

	for i := range m.Constants {
		e := &m.Constants[i]
		e.Key = strings.TrimSpace(e.Key)

		if e.Key == "" {
			return fmt.Errorf("%w, constant %d has no key", ErrInvalid, i)
		}

		if e.Name == "" {
			e.Name = strcase.ToScreamingSnake(e.Key)
		}

		if seen[e.Name] {
			return fmt.Errorf("%w, duplicate constant %s", ErrInvalid, e.Name)
		}

		seen[e.Name] = true
	}

	return nil
}

// Metadata returns the template metadata of the manifest.
func (m *Manifest) Metadata() javagen.Metadata {
	return javagen.Metadata{
		Script:  m.Script,
		Source:  m.Source,
		Package: m.Package,
		Class:   m.Class,
	}
}
