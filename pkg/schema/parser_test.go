package schema

import (
	"reflect"
	"strings"
	"testing"
)

type Listing struct {
	ID       int64          `po:"Id,number,primaryKey" json:"Id"`
	Title    string         `po:"title_c,scalar" json:"title"`
	Price    float64        `po:"price_c,number" json:"price"`
	Qty      int            `po:"qty_c,number,default(1)" json:"qty"`
	Active   bool           `po:"active_c,boolean,default(true)" json:"active"`
	Tags     []string       `po:"tags_c,lines" json:"tags"`
	Meta     map[string]any `po:"meta_c,json" json:"meta"`
	Status   string         `po:"status_c,scalar,immutable,default(New)" json:"status"`
	Internal string         `json:"internal"`
}

func (Listing) TableName() string { return "listing_c" }

type OrderLine struct {
	ID   int64  `po:"Id,number,primaryKey"`
	Note string `po:"note_c,scalar"`
}

func TestParser_Parse(t *testing.T) {
	s, err := NewParser().Parse(reflect.TypeOf(Listing{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Table != "listing_c" {
		t.Errorf("expected table listing_c, got %s", s.Table)
	}

	wantKeys := []string{"title_c", "price_c", "qty_c", "active_c", "tags_c", "meta_c", "status_c"}
	if got := s.StoreKeys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("StoreKeys() = %v, want %v", got, wantKeys)
	}
	if len(s.Fields()) != 8 {
		t.Errorf("expected 8 fields, got %d", len(s.Fields()))
	}

	pk, ok := s.PrimaryKey()
	if !ok || pk.StoreKey != IDKey {
		t.Errorf("expected primary key Id, got %+v", pk)
	}

	tests := []struct {
		storeKey  string
		domainKey string
		kind      Kind
		immutable bool
		def       any
	}{
		{"title_c", "title", KindScalar, false, nil},
		{"price_c", "price", KindNumber, false, nil},
		{"qty_c", "qty", KindNumber, false, 1},
		{"active_c", "active", KindBoolean, false, true},
		{"tags_c", "tags", KindLines, false, nil},
		{"meta_c", "meta", KindJSON, false, nil},
		{"status_c", "status", KindScalar, true, "New"},
	}

	for _, tt := range tests {
		t.Run(tt.storeKey, func(t *testing.T) {
			f, ok := s.ByStoreKey(tt.storeKey)
			if !ok {
				t.Fatalf("field %s not found", tt.storeKey)
			}
			if f.DomainKey != tt.domainKey {
				t.Errorf("DomainKey = %s, want %s", f.DomainKey, tt.domainKey)
			}
			if f.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", f.Kind, tt.kind)
			}
			if f.Immutable != tt.immutable {
				t.Errorf("Immutable = %v, want %v", f.Immutable, tt.immutable)
			}
			if f.Default != tt.def {
				t.Errorf("Default = %#v, want %#v", f.Default, tt.def)
			}
			if byDom, ok := s.ByDomainKey(tt.domainKey); !ok || byDom.StoreKey != tt.storeKey {
				t.Errorf("ByDomainKey(%s) did not resolve to %s", tt.domainKey, tt.storeKey)
			}
		})
	}

	if !s.HasStoreKey(IDKey) {
		t.Error("expected Id to be a known store key")
	}
	if s.HasStoreKey("internal") {
		t.Error("untagged fields must not be mapped")
	}
}

func TestParser_DefaultTableAndDomainKey(t *testing.T) {
	s, err := NewParser().Parse(reflect.TypeOf(&OrderLine{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Table != "order_line" {
		t.Errorf("expected table order_line, got %s", s.Table)
	}
	f, _ := s.ByStoreKey("note_c")
	if f.DomainKey != "Note" {
		t.Errorf("expected domain key to fall back to Go name, got %s", f.DomainKey)
	}
}

func TestParser_Caches(t *testing.T) {
	p := NewParser()
	a, err := p.Parse(reflect.TypeOf(OrderLine{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, _ := p.Parse(reflect.TypeOf(OrderLine{}))
	if a != b {
		t.Error("expected cached schema")
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		wantErr string
	}{
		{
			name:    "not a struct",
			model:   "text",
			wantErr: "must be a struct",
		},
		{
			name: "missing kind",
			model: struct {
				A string `po:"a_c"`
			}{},
			wantErr: "exactly one kind",
		},
		{
			name: "two kinds",
			model: struct {
				A string `po:"a_c,scalar,json"`
			}{},
			wantErr: "exactly one kind",
		},
		{
			name: "unknown option",
			model: struct {
				A string `po:"a_c,scalar,unique"`
			}{},
			wantErr: "unknown option",
		},
		{
			name: "kind mismatch",
			model: struct {
				A string `po:"a_c,boolean"`
			}{},
			wantErr: "cannot hold",
		},
		{
			name: "text primary key",
			model: struct {
				ID string `po:"Id,scalar,primaryKey"`
			}{},
			wantErr: "primary key must be a number",
		},
		{
			name: "duplicate store key",
			model: struct {
				A string `po:"a_c,scalar" json:"a"`
				B string `po:"a_c,scalar" json:"b"`
			}{},
			wantErr: "duplicate store key",
		},
		{
			name: "json default",
			model: struct {
				A map[string]any `po:"a_c,json,default({})"`
			}{},
			wantErr: "always default to an empty document",
		},
		{
			name: "boolean default typo",
			model: struct {
				A bool `po:"a_c,boolean,default(yes)"`
			}{},
			wantErr: "use default(true) or default(false)",
		},
		{
			name: "number default",
			model: struct {
				A int `po:"a_c,number,default(many)"`
			}{},
			wantErr: "invalid default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(reflect.TypeOf(tt.model))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestField_DefaultValue(t *testing.T) {
	s, err := NewParser().Parse(reflect.TypeOf(Listing{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tags, _ := s.ByStoreKey("tags_c")
	v := tags.DefaultValue()
	if v.IsNil() || v.Len() != 0 {
		t.Error("expected empty non-nil slice default")
	}

	meta, _ := s.ByStoreKey("meta_c")
	if m := meta.DefaultValue(); m.IsNil() || m.Len() != 0 {
		t.Error("expected empty non-nil map default")
	}

	qty, _ := s.ByStoreKey("qty_c")
	if got := qty.DefaultValue().Interface(); got != 1 {
		t.Errorf("expected default 1, got %v", got)
	}

	title, _ := s.ByStoreKey("title_c")
	if got := title.DefaultValue().Interface(); got != "" {
		t.Errorf("expected empty string default, got %v", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%s) = %s, %v", k, got, err)
		}
	}
	if _, err := ParseKind("varchar"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
