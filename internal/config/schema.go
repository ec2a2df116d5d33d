package config

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"
	schemareflector "github.com/swaggest/jsonschema-go"

	ext_config "github.com/drupal-tools/assetctl/config"
)

var fileSchema *jsonschema.Schema

func init() {
	js, err := jsonschema.UnmarshalJSON(bytes.NewReader(ext_config.Schema()))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	if err := compiler.AddResource("schema.json", js); err != nil {
		panic(err)
	}

	fileSchema, err = compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
}

// ReflectSchema generates the JSON schema for the declarative configuration
// file from the File struct. The committed schema.json under config/ is
// produced from this; see build/gen-config-schema.go.
func ReflectSchema() ([]byte, error) {
	reflector := schemareflector.Reflector{}

	s, err := reflector.Reflect(File{})
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(s, "", "  ")
}
