package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for _, name := range []string{Classification, TieBreak, RankingResult} {
		t.Run(name, func(t *testing.T) {
			content, err := Load(name)
			require.NoError(t, err)

			var v any
			assert.NoError(t, json.Unmarshal([]byte(content), &v))
		})
	}
}

func TestLoad_UnknownSchema(t *testing.T) {
	_, err := Load("does_not_exist")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidate_Classification(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "key only", doc: `{"canonical_key": "bsit"}`},
		{name: "full", doc: `{"canonical_key": "UNKNOWN", "confidence": 0.2, "reasoning": "no match"}`},
		{name: "missing key", doc: `{"confidence": 0.9}`, wantErr: true},
		{name: "confidence out of range", doc: `{"canonical_key": "bsit", "confidence": 7}`, wantErr: true},
		{name: "wrong type", doc: `{"canonical_key": 12}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Classification, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type")
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_TieBreak(t *testing.T) {
	assert.NoError(t, Validate(TieBreak, `{"adjustments": [{"applicant_id": "a1", "adjustment": 0.4, "justification": "more field work"}]}`))
	assert.Error(t, Validate(TieBreak, `{"adjustments": [{"adjustment": 0.4}]}`))
	assert.Error(t, Validate(TieBreak, `{"ranking": []}`))
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(TieBreak, `{not json`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, TieBreak, loadErr.Path)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "ranked.0.rank", Message: "Must be greater than or equal to 1"}}}
	assert.Contains(t, err.Error(), "1. ranked.0.rank: Must be greater than or equal to 1")
}
