package handlers

import (
	"reflect"
	"testing"
)

func TestValidateProductFields(t *testing.T) {
	tests := []struct {
		name     string
		prodName string
		category string
		newPrice float64
		oldPrice float64
		stock    int
		sizes    []string
		wantErr  bool
	}{
		{"valid", "Blazer", "primary", 24.99, 29.99, 50, []string{"S", "M"}, false},
		{"valid no sizes", "Tie", "sixth", 4.99, 4.99, 100, nil, false},
		{"lowercase size accepted", "Jumper", "secondary", 12.0, 15.0, 10, []string{"m"}, false},
		{"empty name", "  ", "primary", 10, 10, 1, nil, true},
		{"bad category", "Blazer", "year7", 10, 10, 1, nil, true},
		{"negative new price", "Blazer", "primary", -1, 10, 1, nil, true},
		{"negative old price", "Blazer", "primary", 10, -1, 1, nil, true},
		{"negative stock", "Blazer", "primary", 10, 10, -1, nil, true},
		{"bad size", "Blazer", "primary", 10, 10, 1, []string{"XS"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProductFields(tt.prodName, tt.category, tt.newPrice, tt.oldPrice, tt.stock, tt.sizes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateProductFields() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeSizes(t *testing.T) {
	got := normalizeSizes([]string{" m ", "M", "xl", "", "XL", "s"})
	want := []string{"M", "XL", "S"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeSizes() = %v, want %v", got, want)
	}
}

func TestNormalizeSizesEmpty(t *testing.T) {
	if got := normalizeSizes(nil); len(got) != 0 {
		t.Fatalf("normalizeSizes(nil) = %v, want empty", got)
	}
}
