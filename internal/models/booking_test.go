package models

import "testing"

func TestIsTerminal(t *testing.T) {
	terminal := []string{BookingCompleted, BookingCancelled, BookingFree}
	for _, status := range terminal {
		if !IsTerminal(status) {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
	if IsTerminal(BookingBooked) {
		t.Fatal("booked bookings can still transition")
	}
	if IsTerminal("completed") {
		t.Fatal("status matching is case sensitive")
	}
}

func TestIsValidVehicleType(t *testing.T) {
	for _, v := range VehicleTypes {
		if !IsValidVehicleType(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	if IsValidVehicleType("truck") {
		t.Fatal("truck is not an accepted vehicle type")
	}
}
