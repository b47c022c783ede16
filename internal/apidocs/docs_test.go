package apidocs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "DreamRender API", parsed.Info.Title)
	assert.Contains(t, parsed.Paths, "/api/generate")
	assert.Contains(t, parsed.Paths, "/api/images/search")
	assert.Contains(t, parsed.Paths, "/api/v1/generations")
}
