package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Items []string `json:"items"`
}

func TestParseJSONPlainObject(t *testing.T) {
	got, err := ParseJSON[payload](`{"items":["a","b"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Items)
}

func TestParseJSONStripsFencesAndProse(t *testing.T) {
	response := "Sure, here is the result:\n```json\n{\"items\":[\"a\"]}\n```\nLet me know if you need anything else."
	got, err := ParseJSON[payload](response)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Items)
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := ParseJSON[payload]("I cannot produce that.")
	assert.Error(t, err)
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON[payload](`{"items": [unquoted]}`)
	assert.Error(t, err)
}

func TestParseJSONBracesOutOfOrder(t *testing.T) {
	_, err := ParseJSON[payload](`} nothing here {`)
	assert.Error(t, err)
}
