// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command keyseal manages the sealed key stores read by java-api-keys.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/usbarmory/api-keys/internal/keyring"
)

const usage = `Usage: keyseal -f STORE [OPTIONS] COMMAND
  -h    show this help

  -f string
        sealed key store path
  -passphrase-file string
        passphrase file (default: $APIKEYS_PASSPHRASE)

Commands:
  init               create an empty store, replacing any existing one
  set NAME VALUE     store a value ("-" reads it from standard input)
  get NAME           print a value
  list               print stored key names
  delete NAME        remove a value
`

var errUsage = errors.New("invalid invocation")

var (
	store          string
	passphraseFile string
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	flag.StringVar(&store, "f", "", "sealed key store path")
	flag.StringVar(&passphraseFile, "passphrase-file", "", "passphrase file")

	_ = flag.Set("logtostderr", "true")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	err := run(store, passphraseFile, flag.Args(), os.Stdin, os.Stdout)

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

func run(path string, passphraseFile string, args []string, stdin io.Reader, stdout io.Writer) (err error) {
	if path == "" || len(args) == 0 {
		return fmt.Errorf("%w, store path and command are required", errUsage)
	}

	cmd, args := args[0], args[1:]

	if n, ok := arity[cmd]; !ok || n != len(args) {
		return fmt.Errorf("%w, %s", errUsage, cmd)
	}

	passphrase, err := keyring.ReadPassphrase(passphraseFile)

	if err != nil {
		return
	}

	if cmd == "init" {
		if _, err = keyring.CreateSealed(path, passphrase); err == nil {
			glog.Infof("created %s", path)
		}
		return
	}

	s, err := keyring.OpenSealed(path, passphrase)

	if err != nil {
		return fmt.Errorf("could not open %s, %w", path, err)
	}

	switch cmd {
	case "set":
		value := args[1]

		if value == "-" {
			buf, err := io.ReadAll(stdin)

			if err != nil {
				return err
			}

			value = strings.TrimRight(string(buf), "\r\n")
		}

		if err = s.Set(args[0], value); err != nil {
			return
		}

		if err = s.Save(); err == nil {
			glog.Infof("stored %s", args[0])
		}
	case "get":
		var val string

		if val, err = s.Lookup(args[0]); err == nil {
			fmt.Fprintln(stdout, val)
		}
	case "list":
		for _, k := range s.Keys() {
			fmt.Fprintln(stdout, k)
		}
	case "delete":
		if err = s.Delete(args[0]); err != nil {
			return
		}

		if err = s.Save(); err == nil {
			glog.Infof("deleted %s", args[0])
		}
	}

	return
}

// command argument count
var arity = map[string]int{
	"init":   0,
	"set":    2,
	"get":    1,
	"list":   0,
	"delete": 1,
}
