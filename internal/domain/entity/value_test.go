package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"Null", `null`},
		{"String", `"USDC"`},
		{"Integer", `42`},
		{"HighPrecisionDecimal", `1000.000000000000000001`},
		{"Bool", `true`},
		{"Object", `{"amount":"1000.00","status":"pending"}`},
		{"Array", `["a","b",3]`},
		{"Nested", `{"diff":{"old":null,"new":{"retries":[1,2,3]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue([]byte(tt.json))
			require.NoError(t, err)

			encoded, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(encoded))

			reparsed, err := ParseValue(encoded)
			require.NoError(t, err)
			assert.True(t, v.Equal(reparsed))
		})
	}
}

func TestValueNumberPrecision(t *testing.T) {
	// Large values must not be squeezed through float64
	v, err := ParseValue([]byte(`9007199254740993`))
	require.NoError(t, err)

	num, ok := v.NumberVal()
	require.True(t, ok)
	assert.Equal(t, json.Number("9007199254740993"), num)
}

func TestValueAccessors(t *testing.T) {
	obj := ObjectValue(map[string]Value{
		"status": StringValue("dlq"),
		"count":  IntValue(3),
	})

	status, ok := obj.Field("status")
	require.True(t, ok)
	s, ok := status.StringVal()
	require.True(t, ok)
	assert.Equal(t, "dlq", s)

	_, ok = obj.Field("missing")
	assert.False(t, ok)

	// Wrong-kind accessors report not-ok
	_, ok = obj.StringVal()
	assert.False(t, ok)
	assert.False(t, obj.IsNull())
	assert.True(t, NullValue().IsNull())
}

func TestStatusValue(t *testing.T) {
	v := StatusValue("processing")

	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"processing"}`, string(encoded))
}

func TestFieldValue(t *testing.T) {
	v := FieldValue("settlement_id", StringValue("d4c1a6ce"))

	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"settlement_id":"d4c1a6ce"}`, string(encoded))
}

func TestValueEqual(t *testing.T) {
	a := ObjectValue(map[string]Value{"x": ArrayValue([]Value{IntValue(1), BoolValue(true)})})
	b := ObjectValue(map[string]Value{"x": ArrayValue([]Value{IntValue(1), BoolValue(true)})})
	c := ObjectValue(map[string]Value{"x": ArrayValue([]Value{IntValue(2), BoolValue(true)})})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NullValue()))
}
