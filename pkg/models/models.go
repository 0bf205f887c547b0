// Package models defines the storefront entities and their store mappings.
package models

import "encoding/json"

// Store table names.
const (
	ProfileTable = "user_profile_c"
	ProductTable = "product_c"
	OrderTable   = "order_c"
)

// UserProfile is a registered customer. Email is the login key.
type UserProfile struct {
	ID        int64     `po:"Id,number,primaryKey" json:"Id"`
	Email     string    `po:"email_c,scalar,immutable" json:"email" validate:"required,email"`
	FirstName string    `po:"first_name_c,scalar" json:"firstName"`
	LastName  string    `po:"last_name_c,scalar" json:"lastName"`
	Phone     string    `po:"phone_c,scalar" json:"phone"`
	Addresses []Address `po:"addresses_c,json" json:"addresses" validate:"dive"`
	CreatedAt string    `po:"created_at_c,scalar,immutable" json:"createdAt"`
}

// TableName implements schema.Tabler.
func (UserProfile) TableName() string { return ProfileTable }

// DefaultAddress returns the address flagged as default, if any.
func (p UserProfile) DefaultAddress() (Address, bool) {
	return DefaultAddress(p.Addresses)
}

// DefaultAddress returns the first address flagged as default.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// Address is embedded in a profile's address list. Its Id is generated client-side.
// Stored keys without a matching field are kept in Extra and written back unchanged.
type Address struct {
	ID        int64  `json:"Id,omitempty"`
	Label     string `json:"label,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Street    string `json:"street,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsDefault bool   `json:"isDefault"`

	Extra map[string]any `json:"-"`
}

// addressKeys are the document keys Address declares.
var addressKeys = []string{
	"Id", "label", "fullName", "street", "apartment", "city",
	"state", "zipCode", "country", "phone", "isDefault",
}

type addressFields Address

// MarshalJSON writes the declared fields over the extra keys.
func (a Address) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(addressFields(a))
	if err != nil || len(a.Extra) == 0 {
		return data, err
	}
	doc := make(map[string]any, len(a.Extra)+len(addressKeys))
	for k, v := range a.Extra {
		doc[k] = v
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads the declared fields and keeps every other key in Extra.
func (a *Address) UnmarshalJSON(data []byte) error {
	var fields addressFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, k := range addressKeys {
		delete(doc, k)
	}
	*a = Address(fields)
	a.Extra = nil
	if len(doc) > 0 {
		a.Extra = doc
	}
	return nil
}

// Product is a catalog item. Products are read-only through this layer.
type Product struct {
	ID          int64    `po:"Id,number,primaryKey" json:"Id"`
	Name        string   `po:"name_c,scalar" json:"name"`
	Category    string   `po:"category_c,scalar" json:"category"`
	Subcategory string   `po:"subcategory_c,scalar" json:"subcategory"`
	Price       float64  `po:"price_c,number" json:"price" validate:"gte=0"`
	Images      []string `po:"images_c,lines" json:"images"`
	Sizes       []string `po:"sizes_c,lines" json:"sizes"`
	Colors      []string `po:"colors_c,lines" json:"colors"`
	Description string   `po:"description_c,scalar" json:"description"`
	InStock     bool     `po:"in_stock_c,boolean" json:"inStock"`
	StockCount  int      `po:"stock_count_c,number" json:"stockCount" validate:"gte=0"`
	Featured    bool     `po:"featured_c,boolean" json:"featured"`
	Trending    bool     `po:"trending_c,boolean" json:"trending"`
}

// TableName implements schema.Tabler.
func (Product) TableName() string { return ProductTable }

// Order status values. The set is open: the store may hold others.
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// LineItem is one purchased item. Its shape is owned by the caller.
type LineItem map[string]any

// Order is a placed order owned by one profile.
type Order struct {
	ID              int64      `po:"Id,number,primaryKey" json:"Id"`
	UserID          int64      `po:"user_id_c,number,immutable" json:"userId"`
	OrderNumber     string     `po:"order_number_c,scalar,immutable" json:"orderNumber"`
	Items           []LineItem `po:"items_c,json" json:"items"`
	Subtotal        float64    `po:"subtotal_c,number" json:"subtotal" validate:"gte=0"`
	Shipping        float64    `po:"shipping_c,number" json:"shipping" validate:"gte=0"`
	Tax             float64    `po:"tax_c,number" json:"tax" validate:"gte=0"`
	Total           float64    `po:"total_c,number" json:"total" validate:"gte=0"`
	ShippingAddress Address    `po:"shipping_address_c,json" json:"shippingAddress"`
	Status          string     `po:"status_c,scalar,default(Processing)" json:"status"`
	CreatedAt       string     `po:"created_at_c,scalar,immutable" json:"createdAt"`
}

// TableName implements schema.Tabler.
func (Order) TableName() string { return OrderTable }

// OrderDraft is what a caller supplies to place an order.
type OrderDraft struct {
	Items           []LineItem `json:"items" validate:"required,min=1"`
	Subtotal        float64    `json:"subtotal" validate:"gte=0"`
	Shipping        float64    `json:"shipping" validate:"gte=0"`
	Tax             float64    `json:"tax" validate:"gte=0"`
	Total           float64    `json:"total" validate:"gte=0"`
	ShippingAddress Address    `json:"shippingAddress"`
}

// ProfileUpdate carries the editable profile attributes.
// A nil Addresses keeps the stored list.
type ProfileUpdate struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses,omitempty"`
}

// DraftFor builds a single-product draft shipped to addr.
// Shipping and tax are left at zero for the caller to fill in.
func DraftFor(p Product, quantity int, addr Address) OrderDraft {
	if quantity < 1 {
		quantity = 1
	}
	subtotal := p.Price * float64(quantity)
	return OrderDraft{
		Items: []LineItem{{
			"productId": p.ID,
			"name":      p.Name,
			"price":     p.Price,
			"quantity":  quantity,
		}},
		Subtotal:        subtotal,
		Total:           subtotal,
		ShippingAddress: addr,
	}
}

// Recalculate sets Total from the subtotal, shipping and tax.
func (d *OrderDraft) Recalculate() {
	d.Total = d.Subtotal + d.Shipping + d.Tax
}
