// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package keyring

import (
	"errors"

	"github.com/golang/glog"

	"github.com/usbarmory/api-keys/internal/javagen"
	"github.com/usbarmory/api-keys/internal/manifest"
)

// ResolveOptions controls the handling of keys no provider holds.
type ResolveOptions struct {
	// fail with a *LookupError instead of using Default
	Strict bool
	// value used for missing keys when not Strict
	Default string
}

// Resolve looks up every manifest entry, in order, and returns the resulting
// constants.
func Resolve(p Provider, entries []manifest.Entry, opts ResolveOptions) (cs javagen.ConstantSet, err error) {
	for _, e := range entries {
		val, err := p.Lookup(e.Key)

		switch {
		case err == nil:
			glog.V(1).Infof("resolved %s from %s", e.Name, e.Key)
		case errors.Is(err, ErrNotFound) && !opts.Strict:
			glog.V(1).Infof("%s not set, using default", e.Key)
			val = opts.Default
		default:
			return nil, &LookupError{Key: e.Key, Err: err}
		}

		cs = append(cs, javagen.Constant{Name: e.Name, Value: val})
	}

	return
}
