//go:generate go run ../build/gen-config-schema.go schema.json

// Package config carries the committed JSON schema for the .assetctl.yaml
// declarative configuration file.
package config

import (
	_ "embed"
)

//go:embed "schema.json"
var schema []byte

func Schema() []byte {
	return schema
}
