// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package javagen renders Java classes holding string constants.
//
// Output is a pure function of its inputs: the same constants and metadata
// always produce the same bytes.
package javagen

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/usbarmory/api-keys/assets"
)

var (
	ErrInvalidIdentifier = errors.New("invalid Java identifier")
	ErrDuplicateName     = errors.New("duplicate constant name")
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var tmpl = template.Must(template.New("java").Funcs(template.FuncMap{
	"java": Escape,
}).Parse(assets.JavaTemplate))

// Constant represents a single `public static final String` declaration.
type Constant struct {
	Name  string
	Value string
}

// ConstantSet is emitted in slice order.
type ConstantSet []Constant

// Metadata represents the fixed, non secret, inputs of the template.
type Metadata struct {
	// tool identity, shown in the autogenerated notice
	Script string
	// provenance label, shown in the autogenerated notice
	Source string
	// dotted Java package name
	Package string
	// Java class name
	Class string
}

// Validate checks that package and class names are legal Java identifiers.
func (m Metadata) Validate() error {
	if !identifier.MatchString(m.Class) {
		return fmt.Errorf("class %q: %w", m.Class, ErrInvalidIdentifier)
	}

	for _, p := range strings.Split(m.Package, ".") {
		if !identifier.MatchString(p) {
			return fmt.Errorf("package %q: %w", m.Package, ErrInvalidIdentifier)
		}
	}

	return nil
}

// Validate checks that every name is a legal, unique, Java identifier.
func (cs ConstantSet) Validate() error {
	seen := make(map[string]bool, len(cs))

	for _, c := range cs {
		if !identifier.MatchString(c.Name) {
			return fmt.Errorf("constant %q: %w", c.Name, ErrInvalidIdentifier)
		}

		if seen[c.Name] {
			return fmt.Errorf("constant %q: %w", c.Name, ErrDuplicateName)
		}

		seen[c.Name] = true
	}

	return nil
}

// Render returns the Java source for the given constants.
func Render(constants ConstantSet, meta Metadata) ([]byte, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	if err := constants.Validate(); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)

	err := tmpl.Execute(buf, struct {
		Metadata
		Constants ConstantSet
	}{meta, constants})

	if err != nil {
		return nil, fmt.Errorf("could not render %s, %v", meta.Class, err)
	}

	return buf.Bytes(), nil
}

// Escape quotes s for inclusion between the double quotes of a Java string
// literal. Strings without backslashes, double quotes or control characters
// are returned unchanged.
func Escape(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])

		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteString(s[i : i+n])
		}

		i += n
	}

	return b.String()
}
