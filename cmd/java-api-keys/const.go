// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

const usage = `Usage: java-api-keys [OPTIONS]
  -h    show this help

  -out string
        path for java output
  -srcjar string
        path for srcjar output
  (at least one of -out and -srcjar is required)

  -manifest string
        YAML manifest with class name and constant list (default: built-in)
  -package string
        override the Java package name
  -class string
        override the Java class name
  -source string
        override the source label of the autogenerated notice
  -script string
        override the generator label of the autogenerated notice

  -env-file string
        .env file holding key values (repeatable, later files win)
  -keys-dir string
        directory holding one file per key
  -keystore string
        sealed key store (see keyseal)
  -passphrase-file string
        key store passphrase file (default: $APIKEYS_PASSPHRASE)
  -strict
        fail on keys that no provider holds, instead of using "dummytoken"

  -digest string
        path for the srcjar content digest (requires -srcjar)
  -note-key string
        note signer key used to sign the digest (requires -digest)

  -v int
        log verbosity
`
