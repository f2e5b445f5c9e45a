package handlers

import (
	"testing"

	"garbage-backend/internal/models"
)

func candidate(owner, location string, capacity int) collectorCandidate {
	return collectorCandidate{
		Collector: models.Collector{
			QuantityGarbageSack: capacity,
			Status:              models.CollectorAvailable,
		},
		OwnerName: owner,
		Location:  location,
	}
}

func TestRankEligibleCollectorsPicksSmallestSufficientCapacity(t *testing.T) {
	candidates := []collectorCandidate{
		candidate("alpha", "Pahut", 8),
		candidate("bravo", "Pahut", 5),
		candidate("charlie", "Pahut", 12),
	}

	ranked := rankEligibleCollectors(candidates, "Pahut", 5)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 eligible collectors, got %d", len(ranked))
	}
	if ranked[0].OwnerName != "bravo" {
		t.Fatalf("expected smallest sufficient capacity first, got %s (capacity %d)",
			ranked[0].OwnerName, ranked[0].Collector.QuantityGarbageSack)
	}
	if ranked[2].OwnerName != "charlie" {
		t.Fatalf("expected largest capacity last, got %s", ranked[2].OwnerName)
	}
}

func TestRankEligibleCollectorsFiltersInsufficientCapacity(t *testing.T) {
	candidates := []collectorCandidate{
		candidate("alpha", "Pahut", 2),
		candidate("bravo", "Pahut", 4),
	}

	ranked := rankEligibleCollectors(candidates, "Pahut", 3)
	if len(ranked) != 1 {
		t.Fatalf("expected 1 eligible collector, got %d", len(ranked))
	}
	if ranked[0].OwnerName != "bravo" {
		t.Fatalf("expected bravo, got %s", ranked[0].OwnerName)
	}
}

func TestRankEligibleCollectorsFiltersByLocation(t *testing.T) {
	candidates := []collectorCandidate{
		candidate("alpha", "Pahut", 5),
		candidate("bravo", "Simandagit", 5),
	}

	ranked := rankEligibleCollectors(candidates, "Simandagit", 1)
	if len(ranked) != 1 || ranked[0].OwnerName != "bravo" {
		t.Fatalf("expected only bravo for Simandagit, got %v", ranked)
	}
}

func TestRankEligibleCollectorsEmptyWhenNoneMatch(t *testing.T) {
	candidates := []collectorCandidate{
		candidate("alpha", "Pahut", 2),
	}

	if ranked := rankEligibleCollectors(candidates, "Pahut", 5); len(ranked) != 0 {
		t.Fatalf("expected no eligible collectors, got %d", len(ranked))
	}
	if ranked := rankEligibleCollectors(nil, "Pahut", 1); len(ranked) != 0 {
		t.Fatalf("expected no eligible collectors from empty input, got %d", len(ranked))
	}
}

func TestRankEligibleCollectorsExactCapacityIsEligible(t *testing.T) {
	candidates := []collectorCandidate{candidate("alpha", "Pahut", 5)}

	ranked := rankEligibleCollectors(candidates, "Pahut", 5)
	if len(ranked) != 1 {
		t.Fatalf("capacity equal to quantity should be eligible, got %d results", len(ranked))
	}
}
