// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command java-api-keys generates a Java class (or a srcjar holding it) with
// API keys and OAuth client credentials as string constants.
//
// Values are taken, in order of precedence, from the environment, from .env
// files, from a key directory and from a sealed key store.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
)

type Config struct {
	out    string
	srcjar string

	manifest string
	pkg      string
	class    string
	source   string
	script   string

	envFiles       fileList
	keysDir        string
	keystore       string
	passphraseFile string
	strict         bool

	digest  string
	noteKey string
}

type fileList []string

func (l *fileList) String() string {
	return strings.Join(*l, ",")
}

func (l *fileList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

var errUsage = errors.New("invalid invocation")

var conf *Config

func init() {
	conf = &Config{}

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	conf.register(flag.CommandLine)

	// build logs belong on the console, not in $TMPDIR
	_ = flag.Set("logtostderr", "true")
}

func (c *Config) register(fs *flag.FlagSet) {
	fs.StringVar(&c.out, "out", "", "path for java output")
	fs.StringVar(&c.srcjar, "srcjar", "", "path for srcjar output")

	fs.StringVar(&c.manifest, "manifest", "", "YAML manifest")
	fs.StringVar(&c.pkg, "package", "", "Java package name")
	fs.StringVar(&c.class, "class", "", "Java class name")
	fs.StringVar(&c.source, "source", "", "source label")
	fs.StringVar(&c.script, "script", "", "generator label")

	fs.Var(&c.envFiles, "env-file", ".env file (repeatable)")
	fs.StringVar(&c.keysDir, "keys-dir", "", "directory holding one file per key")
	fs.StringVar(&c.keystore, "keystore", "", "sealed key store")
	fs.StringVar(&c.passphraseFile, "passphrase-file", "", "key store passphrase file")
	fs.BoolVar(&c.strict, "strict", false, "fail on missing keys")

	fs.StringVar(&c.digest, "digest", "", "path for the srcjar digest")
	fs.StringVar(&c.noteKey, "note-key", "", "note signer key file")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		flag.Usage()
		os.Exit(2)
	}

	err := generate(conf)

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		glog.Flush()
		os.Exit(2)
	case err != nil:
		glog.Exitf("%v", err)
	}
}
