// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package assets

// DummyToken is the placeholder emitted for keys that no provider can
// supply, it matches the value used by unofficial Chromium builds.
const DummyToken = "dummytoken"

// Default generated class location and provenance label
const (
	DefaultPackage = "org.chromium.chrome"
	DefaultClass   = "GoogleAPIKeys"
	DefaultSource  = "google_api_keys/google_api_keys.h"
	DefaultScript  = "cmd/java-api-keys"
)

// Key represents a generated constant and the provider key it is read from.
type Key struct {
	Name   string
	Lookup string
}

// Keys returns the built-in constant table, in emission order.
func Keys() []Key {
	return []Key{
		{"GOOGLE_API_KEY", "GOOGLE_API_KEY"},
		{"GOOGLE_API_KEY_PHYSICAL_WEB_TEST", "GOOGLE_API_KEY_PHYSICAL_WEB_TEST"},
		{"GOOGLE_CLIENT_ID_MAIN", clientID("MAIN")},
		{"GOOGLE_CLIENT_SECRET_MAIN", clientSecret("MAIN")},
		{"GOOGLE_CLIENT_ID_CLOUD_PRINT", clientID("CLOUD_PRINT")},
		{"GOOGLE_CLIENT_SECRET_CLOUD_PRINT", clientSecret("CLOUD_PRINT")},
		{"GOOGLE_CLIENT_ID_REMOTING", clientID("REMOTING")},
		{"GOOGLE_CLIENT_SECRET_REMOTING", clientSecret("REMOTING")},
		{"GOOGLE_CLIENT_ID_REMOTING_HOST", clientID("REMOTING_HOST")},
		{"GOOGLE_CLIENT_SECRET_REMOTING_HOST", clientSecret("REMOTING_HOST")},
		{"GOOGLE_CLIENT_ID_REMOTING_IDENTITY_API", clientID("REMOTING_IDENTITY_API")},
	}
}

func clientID(client string) string {
	return "GOOGLE_CLIENT_ID_" + client
}

func clientSecret(client string) string {
	return "GOOGLE_CLIENT_SECRET_" + client
}
