// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package assets

import (
	_ "embed"
)

// JavaTemplate is the text/template source for the generated class.
//
//go:embed GoogleAPIKeys.java.tmpl
var JavaTemplate string
