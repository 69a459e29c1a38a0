package gen

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/ava12/mage/grammar"
)

// SchemaID is the identifier of grammar document schema.
const SchemaID = "https://github.com/ava12/mage/gen/document.schema.json"

// Schema returns JSON Schema describing Document.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	s := r.Reflect(&Document{})
	s.ID = SchemaID
	s.Title = "Mage grammar document"
	return s
}

func generateSchema(_ *grammar.Grammar, opts Options) (Files, error) {
	content, e := json.MarshalIndent(Schema(), "", "  ")
	if e != nil {
		return nil, e
	}
	return Files{opts.Name + ".schema.json": append(content, '\n')}, nil
}
