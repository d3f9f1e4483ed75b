package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lookupSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"text"},
	"properties": map[string]interface{}{
		"text":      map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 64},
		"requestId": map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantField string
		wantCode  string
	}{
		{"valid", `{"text": "1101"}`, true, "", ""},
		{"with request id", `{"text": "C90", "requestId": "abc"}`, true, "", ""},
		{"missing text", `{}`, false, "text", "REQUIRED"},
		{"wrong type", `{"text": 1101}`, false, "text", "INVALID_TYPE"},
		{"empty text", `{"text": ""}`, false, "text", "STRING_GTE"},
		{"extra field", `{"text": "1101", "chat": 1}`, false, "chat", "ADDITIONAL_PROPERTY_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateJSON(lookupSchema, []byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
			assert.True(t, result.HasErrors(tt.wantField))
			assert.NotEmpty(t, result.GetErrorMessages())
		})
	}
}

func TestValidateJSON_Malformed(t *testing.T) {
	_, err := ValidateJSON(lookupSchema, []byte(`{"text":`))
	assert.Error(t, err)
}

func TestValidate_EmptySchemaAcceptsAnything(t *testing.T) {
	result, err := Validate(nil, map[string]interface{}{"anything": true})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestCompile(t *testing.T) {
	assert.NoError(t, Compile(lookupSchema))
	assert.NoError(t, Compile(nil))
	assert.Error(t, Compile(map[string]interface{}{"type": 12}))
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("lookup.unit.resolve"))
	assert.Error(t, ValidateActivityNaming("unit-lookup"))
	assert.Error(t, ValidateActivityNaming("Lookup.Unit.Resolve"))
}
