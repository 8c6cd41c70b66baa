// Package openapi embeds the HTTP contract served at /openapi.yaml and used
// for request validation.
package openapi

import _ "embed"

//go:embed openapi.yaml
var Document []byte
