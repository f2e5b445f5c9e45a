package handlers

import (
	"fmt"

	"garbage-backend/internal/models"
)

// Unit prices per declared sack.
const (
	smallSackPrice = 10.0
	bigSackPrice   = 15.0
)

// collectorCommissionRate is the flat share of the total payment a collector
// earns when a collection is completed.
const collectorCommissionRate = 0.30

type invalidBinCategoryError struct {
	Category string
}

func (e invalidBinCategoryError) Error() string {
	return fmt.Sprintf("invalid bin category: %s", e.Category)
}

func unitPrice(category string) (float64, error) {
	switch category {
	case models.SmallSack:
		return smallSackPrice, nil
	case models.BigSack:
		return bigSackPrice, nil
	default:
		return 0, invalidBinCategoryError{Category: category}
	}
}

func totalPayment(category string, quantity int) (float64, error) {
	price, err := unitPrice(category)
	if err != nil {
		return 0, err
	}
	return price * float64(quantity), nil
}

func collectorIncome(category string, quantity int) (float64, error) {
	total, err := totalPayment(category, quantity)
	if err != nil {
		return 0, err
	}
	return total * collectorCommissionRate, nil
}
