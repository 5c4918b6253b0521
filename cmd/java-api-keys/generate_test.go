// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/rand"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mod/sumdb/note"

	"github.com/usbarmory/api-keys/internal/keyring"
	"github.com/usbarmory/api-keys/internal/srcjar"
)

const testManifest = `package: org.example.keys
class: TestKeys
source: testdata/keys.h
script: cmd/java-api-keys
constants:
  - name: MAPS_KEY
    key: APIKEYS_TEST_MAPS_KEY
  - name: CLIENT_SECRET
    key: APIKEYS_TEST_CLIENT_SECRET
`

func parseConfig(t *testing.T, args ...string) *Config {
	t.Helper()

	c := &Config{}
	fs := flag.NewFlagSet("java-api-keys", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.register(fs)

	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	return c
}

func writeFile(t *testing.T, p string, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	return p
}

func readFile(t *testing.T, p string) []byte {
	t.Helper()

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}

	return b
}

func fixture(t *testing.T) (dir string, manifestPath string, keysDir string) {
	t.Helper()

	dir = t.TempDir()
	manifestPath = writeFile(t, filepath.Join(dir, "keys.yaml"), testManifest)
	keysDir = filepath.Join(dir, "keys")
	writeFile(t, filepath.Join(keysDir, "APIKEYS_TEST_MAPS_KEY"), "abc123\n")
	writeFile(t, filepath.Join(keysDir, "APIKEYS_TEST_CLIENT_SECRET"), "s3cr3t\n")

	return
}

func TestGenerate_NoOutputIsUsageError(t *testing.T) {
	dir, manifestPath, keysDir := fixture(t)

	c := parseConfig(t, "-manifest", manifestPath, "-keys-dir", keysDir)

	if err := generate(c); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected no new files, found %d entries", len(entries))
	}
}

func TestGenerate_UsageErrors(t *testing.T) {
	testCases := [][]string{
		{"-out", "x.java", "-digest", "x.digest"},
		{"-srcjar", "x.srcjar", "-note-key", "key"},
	}

	for _, args := range testCases {
		if err := generate(parseConfig(t, args...)); !errors.Is(err, errUsage) {
			t.Errorf("%v: expected usage error, got %v", args, err)
		}
	}
}

func TestGenerate_PlainOnly(t *testing.T) {
	dir, manifestPath, keysDir := fixture(t)
	out := filepath.Join(dir, "gen", "java", "TestKeys.java")
	jar := filepath.Join(dir, "gen", "keys.srcjar")

	c := parseConfig(t, "-out", out, "-manifest", manifestPath, "-keys-dir", keysDir)

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}

	text := string(readFile(t, out))
	for _, line := range []string{
		"package org.example.keys;\n",
		"public class TestKeys {\n",
		"  public static final String MAPS_KEY = \"abc123\";\n",
		"  public static final String CLIENT_SECRET = \"s3cr3t\";\n",
		"//     testdata/keys.h\n",
	} {
		if !strings.Contains(text, line) {
			t.Errorf("missing %q in output:\n%s", line, text)
		}
	}

	if _, err := os.Stat(jar); !os.IsNotExist(err) {
		t.Fatalf("srcjar must not be written, stat: %v", err)
	}
}

func TestGenerate_BothOutputsMatch(t *testing.T) {
	dir, manifestPath, keysDir := fixture(t)
	out := filepath.Join(dir, "TestKeys.java")
	jar := filepath.Join(dir, "srcjars", "keys.srcjar")

	c := parseConfig(t, "-out", out, "-srcjar", jar, "-manifest", manifestPath, "-keys-dir", keysDir)

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}

	first := readFile(t, jar)

	entry, err := srcjar.ReadEntry(jar, "org/example/keys/TestKeys.java")
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !bytes.Equal(entry, readFile(t, out)) {
		t.Fatalf("archive entry differs from plain output")
	}

	if err := generate(c); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if !bytes.Equal(first, readFile(t, jar)) {
		t.Fatalf("srcjar differs across identical runs")
	}
}

func TestGenerate_MissingKeys(t *testing.T) {
	dir, manifestPath, _ := fixture(t)
	out := filepath.Join(dir, "TestKeys.java")

	c := parseConfig(t, "-out", out, "-manifest", manifestPath)

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(readFile(t, out)), "MAPS_KEY = \"dummytoken\";") {
		t.Fatalf("expected dummy token for unset key")
	}

	strictOut := filepath.Join(dir, "strict", "TestKeys.java")
	c = parseConfig(t, "-out", strictOut, "-manifest", manifestPath, "-strict")

	var lookupErr *keyring.LookupError
	if err := generate(c); !errors.As(err, &lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if _, err := os.Stat(strictOut); !os.IsNotExist(err) {
		t.Fatalf("no output expected on lookup failure")
	}
}

func TestGenerate_ProviderPrecedence(t *testing.T) {
	dir, manifestPath, keysDir := fixture(t)
	out := filepath.Join(dir, "TestKeys.java")
	envFile := writeFile(t, filepath.Join(dir, "keys.env"), "APIKEYS_TEST_MAPS_KEY=from-dotenv\n")

	store := filepath.Join(dir, "keys.sealed")
	s, err := keyring.CreateSealed(store, "pw")
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Set("APIKEYS_TEST_CLIENT_SECRET", "from-store")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}
	t.Setenv(keyring.PassphraseEnv, "pw")

	c := parseConfig(t, "-out", out, "-manifest", manifestPath,
		"-env-file", envFile, "-keystore", store)

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}

	text := string(readFile(t, out))
	if !strings.Contains(text, "MAPS_KEY = \"from-dotenv\";") || !strings.Contains(text, "CLIENT_SECRET = \"from-store\";") {
		t.Fatalf("unexpected values:\n%s", text)
	}

	t.Setenv("APIKEYS_TEST_MAPS_KEY", "from-env")
	c = parseConfig(t, "-out", out, "-manifest", manifestPath,
		"-env-file", envFile, "-keys-dir", keysDir)

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}

	text = string(readFile(t, out))
	if !strings.Contains(text, "MAPS_KEY = \"from-env\";") || !strings.Contains(text, "CLIENT_SECRET = \"s3cr3t\";") {
		t.Fatalf("unexpected values:\n%s", text)
	}
}

func TestGenerate_Overrides(t *testing.T) {
	dir, _, keysDir := fixture(t)
	jar := filepath.Join(dir, "keys.srcjar")

	c := parseConfig(t, "-srcjar", jar, "-keys-dir", keysDir,
		"-package", "org.example.override", "-class", "Keys")

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}

	names, err := srcjar.Entries(jar)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "org/example/override/Keys.java" {
		t.Fatalf("unexpected entries %v", names)
	}

	entry, _ := srcjar.ReadEntry(jar, names[0])
	if n := strings.Count(string(entry), "public static final String"); n != 11 {
		t.Fatalf("expected the 11 built-in constants, got %d", n)
	}
}

func TestGenerate_SignedDigest(t *testing.T) {
	dir, manifestPath, keysDir := fixture(t)
	jar := filepath.Join(dir, "keys.srcjar")
	digest := filepath.Join(dir, "keys.srcjar.digest")

	skey, vkey, err := note.GenerateKey(rand.Reader, "api-keys-test")
	if err != nil {
		t.Fatal(err)
	}
	keyFile := writeFile(t, filepath.Join(dir, "note.key"), skey+"\n")

	c := parseConfig(t, "-srcjar", jar, "-manifest", manifestPath, "-keys-dir", keysDir,
		"-digest", digest, "-note-key", keyFile)

	if err := generate(c); err != nil {
		t.Fatalf("generate: %v", err)
	}

	text, err := srcjar.VerifyDigest(readFile(t, digest), vkey)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	h, _ := srcjar.Digest(jar)
	if text != srcjar.DigestLine("keys.srcjar", h) {
		t.Fatalf("unexpected digest line %q", text)
	}
}

func TestGenerate_InvalidKeyDir(t *testing.T) {
	dir := t.TempDir()

	c := parseConfig(t, "-out", filepath.Join(dir, "K.java"), "-keys-dir", filepath.Join(dir, "missing"))

	if err := generate(c); err == nil {
		t.Fatalf("expected error for missing key directory")
	}
}
