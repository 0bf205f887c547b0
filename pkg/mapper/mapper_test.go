package mapper

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/registry"
	"github.com/marshallshelly/pebble-records/pkg/schema"
)

func schemaFor[T any](t *testing.T) *schema.Schema {
	t.Helper()
	s, err := registry.For[T]()
	require.NoError(t, err)
	return s
}

func TestDecode_Product(t *testing.T) {
	s := schemaFor[models.Product](t)

	rec := record.Record{
		"Id":            float64(12),
		"name_c":        "Trail Runner",
		"category_c":    "Shoes",
		"price_c":       "89.5",
		"images_c":      "a.jpg\n\nb.jpg\n",
		"sizes_c":       "S\r\nM\r\n  L  ",
		"colors_c":      []any{"red", "", "blue"},
		"in_stock_c":    true,
		"stock_count_c": float64(4),
		"featured_c":    "true",
		"trending_c":    float64(0),
	}

	p := Decode[models.Product](s, rec)

	assert.Equal(t, int64(12), p.ID)
	assert.Equal(t, "Trail Runner", p.Name)
	assert.Equal(t, 89.5, p.Price)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, []string{"S", "M", "L"}, p.Sizes)
	assert.Equal(t, []string{"red", "blue"}, p.Colors)
	assert.True(t, p.InStock)
	assert.Equal(t, 4, p.StockCount)
	assert.True(t, p.Featured)
	assert.False(t, p.Trending)
	assert.Equal(t, "", p.Description)
}

func TestDecode_Defaults(t *testing.T) {
	s := schemaFor[models.Order](t)

	o := Decode[models.Order](s, record.Record{})

	assert.Equal(t, models.StatusProcessing, o.Status)
	assert.NotNil(t, o.Items)
	assert.Empty(t, o.Items)
	assert.Equal(t, models.Address{}, o.ShippingAddress)
	assert.Zero(t, o.Total)
}

func TestDecode_FalsyUsesDefault(t *testing.T) {
	s := schemaFor[models.Order](t)

	o := Decode[models.Order](s, record.Record{"status_c": "", "items_c": ""})
	assert.Equal(t, models.StatusProcessing, o.Status)
	assert.Empty(t, o.Items)
}

func TestDecode_MalformedJSONNeverFails(t *testing.T) {
	s := schemaFor[models.UserProfile](t)

	tests := []struct {
		name string
		raw  any
	}{
		{"truncated", `[{"street":`},
		{"wrong shape", `{"street":"x"}`},
		{"not json", "hello"},
		{"null", "null"},
		{"number", float64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Decode[models.UserProfile](s, record.Record{
				"email_c":     "a@b.co",
				"addresses_c": tt.raw,
			})
			assert.Equal(t, "a@b.co", p.Email)
			assert.NotNil(t, p.Addresses)
			assert.Empty(t, p.Addresses)
		})
	}
}

func TestDecode_JSONAlreadyDecoded(t *testing.T) {
	s := schemaFor[models.UserProfile](t)

	p := Decode[models.UserProfile](s, record.Record{
		"addresses_c": []any{map[string]any{"Id": float64(5), "street": "1 Main", "isDefault": true}},
	})

	require.Len(t, p.Addresses, 1)
	assert.Equal(t, int64(5), p.Addresses[0].ID)
	assert.True(t, p.Addresses[0].IsDefault)
}

func TestDecode_LookupObject(t *testing.T) {
	s := schemaFor[models.Order](t)

	tests := []struct {
		name string
		raw  any
	}{
		{"plain number", float64(42)},
		{"numeric string", "42"},
		{"lookup", map[string]any{"Id": float64(42), "Name": "Jane"}},
		{"json number", json.Number("42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Decode[models.Order](s, record.Record{"user_id_c": tt.raw})
			assert.Equal(t, int64(42), o.UserID)
		})
	}
}

func TestDecode_WrongTypesDowngrade(t *testing.T) {
	s := schemaFor[models.Product](t)

	p := Decode[models.Product](s, record.Record{
		"name_c":     []any{"x"},
		"price_c":    "cheap",
		"in_stock_c": "maybe",
		"images_c":   float64(1),
	})

	assert.Equal(t, "", p.Name)
	assert.Zero(t, p.Price)
	assert.False(t, p.InStock)
	assert.Equal(t, []string{}, p.Images)
}

func TestEncode_RoundTrip(t *testing.T) {
	s := schemaFor[models.UserProfile](t)

	p := models.UserProfile{
		ID:        9,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "555-0100",
		Addresses: []models.Address{
			{ID: 1700000000000, Street: "1 Main", City: "Springfield", IsDefault: true},
			{ID: 1700000000001, Street: "2 Side", City: "Shelbyville"},
		},
		CreatedAt: "2026-01-02T03:04:05Z",
	}

	rec, err := Encode(s, p, Full)
	require.NoError(t, err)
	assert.IsType(t, "", rec["addresses_c"])

	assert.Equal(t, p, Decode[models.UserProfile](s, rec))
}

func TestEncode_OrderRoundTrip(t *testing.T) {
	s := schemaFor[models.Order](t)

	o := models.Order{
		ID:              3,
		UserID:          9,
		OrderNumber:     "VO12345678",
		Items:           []models.LineItem{{"sku": "A1", "name": "Runner"}},
		Subtotal:        10,
		Shipping:        2.5,
		Tax:             0.8,
		Total:           13.3,
		ShippingAddress: models.Address{Street: "1 Main"},
		Status:          models.StatusShipped,
		CreatedAt:       "2026-01-02T03:04:05Z",
	}

	rec, err := Encode(s, o, Full)
	require.NoError(t, err)
	assert.Equal(t, o, Decode[models.Order](s, rec))
}

func TestEncode_Modes(t *testing.T) {
	s := schemaFor[models.UserProfile](t)
	p := models.UserProfile{ID: 9, Email: "a@b.co", FirstName: "A", CreatedAt: "now"}

	created, err := Encode(s, p, ForCreate)
	require.NoError(t, err)
	assert.NotContains(t, created, "Id")
	assert.Equal(t, "a@b.co", created["email_c"])
	assert.Equal(t, "now", created["created_at_c"])

	updated, err := Encode(s, p, ForUpdate)
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated["Id"])
	assert.NotContains(t, updated, "email_c")
	assert.NotContains(t, updated, "created_at_c")
	assert.Equal(t, "A", updated["first_name_c"])
}

func TestEncode_UpdateRequiresIdentity(t *testing.T) {
	s := schemaFor[models.UserProfile](t)

	_, err := Encode(s, models.UserProfile{Email: "a@b.co"}, ForUpdate)
	assert.Error(t, err)
}

func TestEncode_NilSliceIsEmptyDocument(t *testing.T) {
	s := schemaFor[models.UserProfile](t)

	rec, err := Encode(s, models.UserProfile{Email: "a@b.co"}, ForCreate)
	require.NoError(t, err)
	assert.Equal(t, "[]", rec["addresses_c"])
}

func TestEncode_LinesFailLoudly(t *testing.T) {
	s := schemaFor[models.Product](t)

	_, err := Encode(s, models.Product{ID: 1, Name: "x"}, ForUpdate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedEncoding))
	assert.Contains(t, err.Error(), "images_c")
}

func TestEncode_Pointer(t *testing.T) {
	s := schemaFor[models.UserProfile](t)

	rec, err := Encode(s, &models.UserProfile{Email: "a@b.co"}, ForCreate)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", rec["email_c"])

	var nilProfile *models.UserProfile
	_, err = Encode(s, nilProfile, ForCreate)
	assert.Error(t, err)
}

func TestDecodeAll(t *testing.T) {
	s := schemaFor[models.Product](t)

	out := DecodeAll[models.Product](s, []record.Record{
		{"Id": float64(1), "name_c": "a"},
		{"Id": float64(2), "name_c": "b"},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, int64(2), out[1].ID)
}
