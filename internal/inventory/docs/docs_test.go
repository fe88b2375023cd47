package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsRegistered(t *testing.T) {
	// when
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())

	// then
	require.NoError(t, err)
	var parsed struct {
		Swagger string                    `json:"swagger"`
		Info    map[string]any            `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed), "document must be valid JSON")
	assert.Equal(t, "2.0", parsed.Swagger)
	assert.Equal(t, "Inventory API", parsed.Info["title"])
	for path, methods := range map[string][]string{
		"/produtos":         {"get", "post"},
		"/produtos/{id}":    {"get", "put", "patch", "delete"},
		"/quantidades":      {"get"},
		"/quantidades/{id}": {"get"},
		"/estoque":          {"get"},
		"/total/estoque":    {"get"},
		"/venda/{id}":       {"patch"},
		"/compra/{id}":      {"patch"},
	} {
		require.Contains(t, parsed.Paths, path)
		for _, m := range methods {
			assert.Contains(t, parsed.Paths[path], m, "%s %s", m, path)
		}
	}
}
