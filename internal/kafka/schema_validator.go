package kafka

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/v1/*.json
var schemaFS embed.FS

const createdEventSchema = "schemas/v1/transaction_created.v1.json"

// Validator checks event payloads against the embedded
// transaction.created.v1 schema before they reach the broker, so a codec
// regression can never publish a malformed event.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	data, err := schemaFS.ReadFile(createdEventSchema)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", createdEventSchema, err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(createdEventSchema, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	s, err := c.Compile(createdEventSchema)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate round-trips the event through JSON because the schema library
// operates on generic values (map[string]any, etc.).
func (v *Validator) Validate(doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	return v.schema.Validate(x)
}
