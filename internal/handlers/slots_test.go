package handlers

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSlotAcceptsScheduledTimes(t *testing.T) {
	valid := []struct{ date, timeOfDay string }{
		{"2024-03-10", "10:00 AM"},
		{"2024-03-10", "5:00 PM"},
		{"2024-03-11", "9:00 AM"},
		{"2024-03-12", "4:00 PM"},
	}
	for _, slot := range valid {
		if err := validateSlot(slot.date, slot.timeOfDay); err != nil {
			t.Fatalf("validateSlot(%s, %s) = %v, want nil", slot.date, slot.timeOfDay, err)
		}
	}
}

func TestValidateSlotRejectsUnknownDate(t *testing.T) {
	err := validateSlot("2024-03-13", "9:00 AM")
	if err == nil {
		t.Fatal("expected error for a date outside the schedule")
	}
	var slotErr invalidSlotError
	if !errors.As(err, &slotErr) {
		t.Fatalf("expected invalidSlotError, got %T", err)
	}
	if !strings.Contains(slotErr.Error(), "invalid date") {
		t.Fatalf("unexpected message: %s", slotErr.Error())
	}
}

func TestValidateSlotRejectsTimeOffSchedule(t *testing.T) {
	// 9:00 AM exists on other dates but not on 2024-03-10.
	err := validateSlot("2024-03-10", "9:00 AM")
	if err == nil {
		t.Fatal("expected error for a time not offered on that date")
	}
	var slotErr invalidSlotError
	if !errors.As(err, &slotErr) {
		t.Fatalf("expected invalidSlotError, got %T", err)
	}
	if slotErr.Time != "9:00 AM" {
		t.Fatalf("expected error to carry the time, got %q", slotErr.Time)
	}
}

func TestIsValidLocation(t *testing.T) {
	if !isValidLocation("Pahut") {
		t.Fatal("Pahut should be a serviced barangay")
	}
	if !isValidLocation("Simandagit") {
		t.Fatal("Simandagit should be a serviced barangay")
	}
	if isValidLocation("Manila") {
		t.Fatal("Manila is not serviced")
	}
	if isValidLocation("pahut") {
		t.Fatal("location matching is case sensitive")
	}
}
