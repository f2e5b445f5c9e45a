package handlers

import (
	"errors"
	"testing"
)

func TestResidentBlockedWithoutCollectors(t *testing.T) {
	counters := NewRegistrationCounters()

	err := counters.RegisterResident("Pahut")
	if err == nil {
		t.Fatal("expected resident registration to be blocked with no collectors")
	}
	var capErr capacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected capacityExceededError, got %T", err)
	}
}

func TestResidentMarginFollowsCollectorCount(t *testing.T) {
	counters := NewRegistrationCounters()

	if err := counters.RegisterCollector("Pahut"); err != nil {
		t.Fatalf("first collector registration failed: %v", err)
	}

	// One collector admits up to three residents.
	for i := 0; i < 3; i++ {
		if err := counters.RegisterResident("Pahut"); err != nil {
			t.Fatalf("resident %d should be admitted: %v", i+1, err)
		}
	}
	if err := counters.RegisterResident("Pahut"); err == nil {
		t.Fatal("fourth resident should be blocked at a 3:1 margin")
	}

	// A second collector extends the margin.
	if err := counters.RegisterCollector("Pahut"); err != nil {
		t.Fatalf("second collector registration failed: %v", err)
	}
	if err := counters.RegisterResident("Pahut"); err != nil {
		t.Fatalf("resident should be admitted after second collector: %v", err)
	}
}

func TestThirdCollectorOnHold(t *testing.T) {
	counters := NewRegistrationCounters()

	if err := counters.RegisterCollector("Pahut"); err != nil {
		t.Fatalf("first collector registration failed: %v", err)
	}
	if err := counters.RegisterCollector("Pahut"); err != nil {
		t.Fatalf("second collector registration failed: %v", err)
	}

	err := counters.RegisterCollector("Pahut")
	if err == nil {
		t.Fatal("third collector should be on hold")
	}
	var holdErr registrationOnHoldError
	if !errors.As(err, &holdErr) {
		t.Fatalf("expected registrationOnHoldError, got %T", err)
	}
	if holdErr.Location != "Pahut" {
		t.Fatalf("expected error to carry the location, got %q", holdErr.Location)
	}
}

func TestCountersRollOverAtCycleThresholds(t *testing.T) {
	counters := NewRegistrationCounters()

	for i := 0; i < 2; i++ {
		if err := counters.RegisterCollector("Pahut"); err != nil {
			t.Fatalf("collector %d registration failed: %v", i+1, err)
		}
	}
	for i := 0; i < 6; i++ {
		if err := counters.RegisterResident("Pahut"); err != nil {
			t.Fatalf("resident %d registration failed: %v", i+1, err)
		}
	}

	// Six residents and two collectors start a fresh cycle.
	residents, collectors := counters.Snapshot("Pahut")
	if residents != 0 || collectors != 0 {
		t.Fatalf("expected counters to roll over, got %d residents / %d collectors", residents, collectors)
	}
	if err := counters.RegisterCollector("Pahut"); err != nil {
		t.Fatalf("collector should be admitted in the new cycle: %v", err)
	}
}

func TestCountersAreIndependentPerLocation(t *testing.T) {
	counters := NewRegistrationCounters()

	for i := 0; i < 2; i++ {
		if err := counters.RegisterCollector("Pahut"); err != nil {
			t.Fatalf("collector registration failed: %v", err)
		}
	}
	if err := counters.RegisterCollector("Pahut"); err == nil {
		t.Fatal("expected Pahut to be on hold")
	}
	if err := counters.RegisterCollector("Simandagit"); err != nil {
		t.Fatalf("Simandagit should be unaffected: %v", err)
	}
}

func TestResetClearsLocation(t *testing.T) {
	counters := NewRegistrationCounters()

	if err := counters.RegisterCollector("Pahut"); err != nil {
		t.Fatalf("collector registration failed: %v", err)
	}
	counters.Reset("Pahut")

	residents, collectors := counters.Snapshot("Pahut")
	if residents != 0 || collectors != 0 {
		t.Fatalf("expected cleared counters, got %d residents / %d collectors", residents, collectors)
	}
}
