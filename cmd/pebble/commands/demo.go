package commands

import (
	"context"

	"github.com/marshallshelly/pebble-records/pkg/models"
	"github.com/marshallshelly/pebble-records/pkg/record"
	"github.com/marshallshelly/pebble-records/pkg/runtime"
)

// demoProducts are stored in wire shape: list attributes are newline-joined text.
var demoProducts = []record.Record{
	{
		"name_c": "Trail Runner", "category_c": "Shoes", "subcategory_c": "Running",
		"price_c": 89.99, "images_c": "trail-1.jpg\ntrail-2.jpg", "sizes_c": "8\n9\n10\n11",
		"colors_c": "Black\nOlive", "description_c": "Grippy outsole for loose terrain.",
		"in_stock_c": true, "stock_count_c": 24, "featured_c": true, "trending_c": false,
	},
	{
		"name_c": "City Sneaker", "category_c": "Shoes", "subcategory_c": "Casual",
		"price_c": 64.5, "images_c": "city-1.jpg", "sizes_c": "7\n8\n9\n10",
		"colors_c": "White\nNavy", "description_c": "Everyday leather sneaker.",
		"in_stock_c": true, "stock_count_c": 40, "featured_c": false, "trending_c": true,
	},
	{
		"name_c": "Linen Shirt", "category_c": "Apparel", "subcategory_c": "Shirts",
		"price_c": 45, "images_c": "linen-1.jpg\nlinen-2.jpg", "sizes_c": "S\nM\nL",
		"colors_c": "Sand\nSky", "description_c": "Breathable linen for warm days.",
		"in_stock_c": true, "stock_count_c": 12, "featured_c": true, "trending_c": true,
	},
	{
		"name_c": "Canvas Tote", "category_c": "Accessories", "subcategory_c": "Bags",
		"price_c": 19.0, "images_c": "tote-1.jpg", "sizes_c": "",
		"colors_c": "Natural", "description_c": "Heavy canvas tote bag.",
		"in_stock_c": false, "stock_count_c": 0, "featured_c": false, "trending_c": false,
	},
}

var demoProfile = record.Record{
	"email_c":      "demo@example.com",
	"first_name_c": "Demo",
	"last_name_c":  "Shopper",
	"phone_c":      "555-0100",
	"addresses_c":  `[{"Id":1700000000000,"label":"Home","fullName":"Demo Shopper","street":"1 Market St","city":"Springfield","state":"IL","zipCode":"62701","country":"US","isDefault":true}]`,
	"created_at_c": "2026-01-01T00:00:00.000Z",
}

// seedDemo writes the demo catalog and profile through the record store.
func seedDemo(ctx context.Context, db *runtime.DB) error {
	for _, p := range demoProducts {
		if _, err := db.Create(ctx, models.ProductTable, p.Clone()); err != nil {
			return err
		}
	}
	_, err := db.Create(ctx, models.ProfileTable, demoProfile.Clone())
	return err
}
