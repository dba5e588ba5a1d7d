package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawProduct is a product record as received from the catalog endpoint.
// Any field may be absent; Description holds a documentation URL.
type RawProduct struct {
	ID                 string     `json:"_id"`
	Merchant           string     `json:"merchant"`
	Description        string     `json:"description,omitempty"`
	Category           StringList `json:"category"`
	Country            StringList `json:"country"`
	Currency           string     `json:"currency,omitempty"`
	MinPrice           float64    `json:"minPrice"`
	MaxPrice           float64    `json:"maxPrice"`
	Denominations      []float64  `json:"denominations"`
	TermsAndConditions string     `json:"termsAndConditions,omitempty"`
	Redemption         string     `json:"redemption,omitempty"`
	ProductCode        string     `json:"productCode,omitempty"`
}

// Product is the normalized, display-ready shape served to consumers
type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Value              float64   `json:"value"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Merchant           string    `json:"merchant"`
	ProductCode        string    `json:"productCode"`
	Country            string    `json:"country"`
	Currency           string    `json:"currency"`
	MinPrice           float64   `json:"minPrice"`
	MaxPrice           float64   `json:"maxPrice"`
	Denominations      []float64 `json:"denominations"`
	TermsAndConditions string    `json:"termsAndConditions"`
	Redemption         string    `json:"redemption"`
}

// StringList holds a field the catalog sends either as a single string or as a list.
// A single value decodes to a one-element list; null decodes to nil.
// Values that are not strings keep their JSON text.
type StringList []string

// UnmarshalJSON accepts a string, an array, or null. Non-string scalars and
// elements are kept as their JSON text; null elements become "".
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] != '[' {
		value, err := stringListValue(data)
		if err != nil {
			return err
		}
		*l = StringList{value}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	list := make(StringList, 0, len(items))
	for _, item := range items {
		value, err := stringListValue(item)
		if err != nil {
			return err
		}
		list = append(list, value)
	}
	*l = list
	return nil
}

func stringListValue(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		return "", nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", fmt.Errorf("string list: %w", err)
		}
		return s, nil
	default:
		return string(data), nil
	}
}

// First returns the first element, or "" for an empty list
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// User is the persisted "current user" profile. The catalog never inspects it.
type User struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name,omitempty"`
	Email      string            `json:"email,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// IsEmpty reports whether no user is set
func (u *User) IsEmpty() bool {
	return u == nil || (u.ID == "" && u.Name == "" && u.Email == "" && len(u.Attributes) == 0)
}
