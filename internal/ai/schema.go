package ai

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/thomas-vilte/prtitle/internal/models"
)

var (
	schemaOnce sync.Once
	schemaMap  map[string]any
	schemaJSON string
)

func buildSchema() {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	s := r.Reflect(&models.TitleGenerationResponse{})

	data, err := json.Marshal(s)
	if err != nil {
		panic("response schema: " + err.Error())
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		panic("response schema: " + err.Error())
	}
	delete(m, "$schema")
	delete(m, "$id")

	compact, _ := json.Marshal(m)
	schemaMap = m
	schemaJSON = string(compact)
}

// ResponseSchema is the JSON schema of the expected reply, as a generic map
// for SDKs that accept structured output schemas.
func ResponseSchema() map[string]any {
	schemaOnce.Do(buildSchema)
	return schemaMap
}

// ResponseSchemaJSON is ResponseSchema encoded for inclusion in prompts.
func ResponseSchemaJSON() string {
	schemaOnce.Do(buildSchema)
	return schemaJSON
}
