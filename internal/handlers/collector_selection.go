package handlers

import (
	"sort"

	"garbage-backend/internal/models"
)

// collectorCandidate pairs a collector with details of its owning user,
// resolved before selection so the ranking itself stays free of I/O.
type collectorCandidate struct {
	Collector models.Collector
	OwnerName string
	Location  string
}

// rankEligibleCollectors filters candidates down to those serving the given
// location with enough declared capacity for the requested quantity, ordered
// by ascending capacity. The head of the result is the best-fit collector:
// the one wasting the least capacity on this request.
func rankEligibleCollectors(candidates []collectorCandidate, location string, quantity int) []collectorCandidate {
	eligible := make([]collectorCandidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Location != location {
			continue
		}
		if cand.Collector.QuantityGarbageSack < quantity {
			continue
		}
		eligible = append(eligible, cand)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Collector.QuantityGarbageSack < eligible[j].Collector.QuantityGarbageSack
	})

	return eligible
}
