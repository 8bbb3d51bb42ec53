package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func makeProduct() domain.Product {
	return domain.Product{
		ID:         "product-1",
		Name:       "Widget",
		Category:   "tools",
		PriceMinor: 500,
		Stock:      10,
	}
}

func TestProductValidate_Ok(t *testing.T) {
	product := makeProduct()
	if err := product.Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}
}

func TestProductValidate_Errors(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(p *domain.Product)
		field string
	}{
		{
			name:  "blank name",
			mut:   func(p *domain.Product) { p.Name = "" },
			field: "name",
		},
		{
			name:  "zero price",
			mut:   func(p *domain.Product) { p.PriceMinor = 0 },
			field: "price_minor",
		},
		{
			name:  "negative price",
			mut:   func(p *domain.Product) { p.PriceMinor = -100 },
			field: "price_minor",
		},
		{
			name:  "negative stock",
			mut:   func(p *domain.Product) { p.Stock = -1 },
			field: "stock",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := makeProduct()
			tc.mut(&product)

			err := product.Validate()
			if err == nil {
				t.Fatalf("expected validation error for case %s", tc.name)
			}

			var invalid *domain.InvalidValueError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidValueError, got %T", err)
			}
			if invalid.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, invalid.Field)
			}
		})
	}
}
