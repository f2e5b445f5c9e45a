package handlers

import (
	"errors"
	"testing"

	"garbage-backend/internal/models"
)

func TestTotalPaymentPerCategory(t *testing.T) {
	tests := []struct {
		category string
		quantity int
		want     float64
	}{
		{models.SmallSack, 1, 10},
		{models.SmallSack, 5, 50},
		{models.BigSack, 1, 15},
		{models.BigSack, 4, 60},
	}

	for _, tt := range tests {
		got, err := totalPayment(tt.category, tt.quantity)
		if err != nil {
			t.Fatalf("totalPayment(%s, %d) returned error: %v", tt.category, tt.quantity, err)
		}
		if got != tt.want {
			t.Fatalf("totalPayment(%s, %d) = %v, want %v", tt.category, tt.quantity, got, tt.want)
		}
	}
}

func TestTotalPaymentRejectsUnknownCategory(t *testing.T) {
	_, err := totalPayment("mediumSack", 2)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	var catErr invalidBinCategoryError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected invalidBinCategoryError, got %T", err)
	}
	if catErr.Category != "mediumSack" {
		t.Fatalf("expected error to carry the category, got %q", catErr.Category)
	}
}

func TestCollectorIncomeIsThirtyPercent(t *testing.T) {
	income, err := collectorIncome(models.SmallSack, 5)
	if err != nil {
		t.Fatalf("collectorIncome returned error: %v", err)
	}
	if income != 15 {
		t.Fatalf("expected 30%% of 50 = 15, got %v", income)
	}

	income, err = collectorIncome(models.BigSack, 2)
	if err != nil {
		t.Fatalf("collectorIncome returned error: %v", err)
	}
	if income != 9 {
		t.Fatalf("expected 30%% of 30 = 9, got %v", income)
	}
}

func TestCollectorIncomeRejectsUnknownCategory(t *testing.T) {
	if _, err := collectorIncome("compost", 1); err == nil {
		t.Fatal("expected error for unknown category")
	}
}
