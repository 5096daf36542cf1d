package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			data, err := Read(name)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", name)
		})
	}
}

func TestAllSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			loader := gojsonschema.NewSchemaLoader()
			for _, dep := range Names() {
				if dep == name {
					continue
				}
				depData, err := Read(dep)
				require.NoError(t, err)
				require.NoError(t, loader.AddSchemas(gojsonschema.NewBytesLoader(depData)))
			}

			data, err := Read(name)
			require.NoError(t, err)
			_, err = loader.Compile(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "schema should compile: %s", name)
		})
	}
}

func TestRead_UnknownSchema(t *testing.T) {
	_, err := Read("missing.schema.json")
	assert.Error(t, err)
}
