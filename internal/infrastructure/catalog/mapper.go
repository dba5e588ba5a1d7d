package catalog

import (
	"fmt"
	"strings"

	"github.com/giftshelf/backend/internal/domain"
)

// countrySeparator joins multi-country records into one display string
const countrySeparator = ", "

// Normalize converts a raw catalog record into the display-ready Product.
// It never fails: absent fields degrade to fallbacks or zero values.
func Normalize(raw domain.RawProduct) domain.Product {
	country := strings.Join(raw.Country, countrySeparator)

	name := raw.Description
	if name == "" {
		name = fmt.Sprintf("%s Gift Card", raw.Merchant)
	}

	description := raw.Description
	if description == "" {
		description = fmt.Sprintf("%s gift card for %s", raw.Merchant, country)
	}

	var denominations []float64
	if raw.Denominations != nil {
		denominations = make([]float64, len(raw.Denominations))
		copy(denominations, raw.Denominations)
	}

	return domain.Product{
		ID:                 raw.ID,
		Name:               name,
		Value:              raw.MaxPrice,
		Description:        description,
		Category:           raw.Category.First(),
		Merchant:           raw.Merchant,
		ProductCode:        raw.ProductCode,
		Country:            country,
		Currency:           raw.Currency,
		MinPrice:           raw.MinPrice,
		MaxPrice:           raw.MaxPrice,
		Denominations:      denominations,
		TermsAndConditions: raw.TermsAndConditions,
		Redemption:         raw.Redemption,
	}
}

// NormalizeAll maps every record through Normalize, preserving order
func NormalizeAll(raws []domain.RawProduct) []domain.Product {
	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, Normalize(raw))
	}
	return products
}
