package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_ApplyTo(t *testing.T) {
	city := "Madrid"

	None[string]().ApplyTo(&city)
	assert.Equal(t, "Madrid", city)

	Some("Sevilla").ApplyTo(&city)
	assert.Equal(t, "Sevilla", city)

	// An explicit empty value is distinct from absence
	Some("").ApplyTo(&city)
	assert.Equal(t, "", city)
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var req struct {
		Name Optional[string] `json:"name"`
		City Optional[string] `json:"city"`
		NIF  Optional[string] `json:"nif"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"name":"ana","nif":null}`), &req))

	name, ok := req.Name.Get()
	assert.True(t, ok)
	assert.Equal(t, "ana", name)
	assert.False(t, req.City.IsPresent())
	assert.False(t, req.NIF.IsPresent())
	assert.Equal(t, "fallback", req.City.OrElse("fallback"))
}

func TestOptional_UnmarshalJSON_TypeMismatch(t *testing.T) {
	var o Optional[int]
	err := json.Unmarshal([]byte(`"nope"`), &o)
	assert.Error(t, err)
	assert.False(t, o.IsPresent())
}

func TestOptional_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
	}{A: Some("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(b))
}
