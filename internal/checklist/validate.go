package checklist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition wraps every rejection from NewItemDefinition
var ErrInvalidDefinition = errors.New("invalid checklist definition")

// ErrInvalidLineItem wraps every rejection from NewLineItem
var ErrInvalidLineItem = errors.New("invalid line item")

// ParseMode maps the stored calculation mode to a Mode.
// Both the stored names and their english aliases are accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unitario", "fixed":
		return Fixed, nil
	case "multiplo", "per_unit", "perunit":
		return PerUnit, nil
	default:
		return "", fmt.Errorf("%w: unknown calculation mode %q", ErrInvalidDefinition, s)
	}
}

// NewItemDefinition creates a validated ItemDefinition
func NewItemDefinition(
	id string,
	productID string,
	description string,
	quantityPerUnit int,
	mode string,
	ordering int,
) (*ItemDefinition, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id cannot be empty", ErrInvalidDefinition)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", ErrInvalidDefinition)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description cannot be empty", ErrInvalidDefinition)
	}
	if quantityPerUnit < 1 {
		return nil, fmt.Errorf("%w: quantity per unit must be positive, got %d", ErrInvalidDefinition, quantityPerUnit)
	}

	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	return &ItemDefinition{
		ID:              id,
		ProductID:       productID,
		Description:     strings.TrimSpace(description),
		QuantityPerUnit: quantityPerUnit,
		Mode:            m,
		Ordering:        ordering,
	}, nil
}

// NewLineItem creates a validated LineItem
func NewLineItem(productID, productName string, quantity int) (*LineItem, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", ErrInvalidLineItem)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidLineItem, quantity)
	}

	return &LineItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
	}, nil
}
