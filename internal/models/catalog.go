package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Product is a catalog entry as served by the backend. Products are immutable
// from the client's perspective once fetched.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	CreatedBy   string  `json:"createdBy"`
}

// Order is a placed order as served by the backend. Status is opaque to the
// client; transitions happen server-side and are observed only via refetch.
type Order struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	Price       Price  `json:"price"`
	Status      string `json:"status"`
	UserName    string `json:"userName"`
}

// CreateProductRequest carries the fields for the create-product endpoint.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Validate checks the create-product fields, reporting every failing field.
func (req *CreateProductRequest) Validate() error {
	var errs ValidationErrors

	if req.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if req.Price < 0 {
		errs = append(errs, ValidationError{Field: "price", Message: "price must not be negative"})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Price is an order amount that tolerates the backend's loose typing: the
// demo services emit prices as JSON numbers, numeric strings, or null
// depending on which service produced the order event. Anything non-numeric
// decodes to 0.
type Price float64

// UnmarshalJSON implements json.Unmarshaler with lenient coercion.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Price(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*p = 0
		return nil
	}
	*p = Price(f)
	return nil
}

// Float64 returns the price as a plain float64.
func (p Price) Float64() float64 {
	return float64(p)
}
