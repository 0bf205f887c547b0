package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_KeepsUnknownKeys(t *testing.T) {
	doc := `{"Id":3,"street":"1 Main","zip":"62701","geo":{"lat":39.8},"isDefault":true}`

	var addr Address
	require.NoError(t, json.Unmarshal([]byte(doc), &addr))
	assert.Equal(t, int64(3), addr.ID)
	assert.Equal(t, "1 Main", addr.Street)
	assert.True(t, addr.IsDefault)
	assert.Equal(t, map[string]any{
		"zip": "62701",
		"geo": map[string]any{"lat": 39.8},
	}, addr.Extra)

	addr.City = "Springfield"
	out, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Id":3,"street":"1 Main","city":"Springfield","zip":"62701","geo":{"lat":39.8},"isDefault":true}`, string(out))
}

func TestAddress_DeclaredFieldsWin(t *testing.T) {
	addr := Address{Street: "new", Extra: map[string]any{"street": "old", "note": "x"}}

	out, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"street":"new","note":"x","isDefault":false}`, string(out))
}

func TestAddress_NoExtraKeys(t *testing.T) {
	var addr Address
	require.NoError(t, json.Unmarshal([]byte(`{"street":"1 Main","isDefault":false}`), &addr))
	assert.Nil(t, addr.Extra)
	assert.Equal(t, Address{Street: "1 Main"}, addr)
}

func TestDefaultAddress(t *testing.T) {
	tests := []struct {
		name      string
		addresses []Address
		want      int64
		ok        bool
	}{
		{name: "none", addresses: nil},
		{name: "no default", addresses: []Address{{ID: 1}, {ID: 2}}},
		{name: "flagged", addresses: []Address{{ID: 1}, {ID: 2, IsDefault: true}}, want: 2, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultAddress(tt.addresses)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.ID)

			got, ok = UserProfile{Addresses: tt.addresses}.DefaultAddress()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}
