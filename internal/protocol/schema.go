package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const schemaBaseURL = "https://schemas.foodtruck.sim/protocol/"

var (
	schemaOnce sync.Once
	helloSch   *jsonschema.Schema
	commandSch *jsonschema.Schema
	schemaErr  error
)

func loadSchemas() {
	c := jsonschema.NewCompiler()
	for _, n := range []string{"hello.schema.json", "command.schema.json"} {
		b, err := schemaFS.ReadFile("schemas/" + n)
		if err != nil {
			schemaErr = err
			return
		}
		if err := c.AddResource(schemaBaseURL+n, bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("schema %s: %w", n, err)
			return
		}
	}
	if helloSch, schemaErr = c.Compile(schemaBaseURL + "hello.schema.json"); schemaErr != nil {
		return
	}
	commandSch, schemaErr = c.Compile(schemaBaseURL + "command.schema.json")
}

func validateRaw(s **jsonschema.Schema, raw []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return (*s).Validate(doc)
}

// ValidateHello checks a raw HELLO frame.
func ValidateHello(raw []byte) error { return validateRaw(&helloSch, raw) }

// ValidateCommand checks a raw COMMAND frame, including per-command required fields.
func ValidateCommand(raw []byte) error { return validateRaw(&commandSch, raw) }
