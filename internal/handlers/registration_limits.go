package handlers

import (
	"fmt"
	"sync"
)

// Per-location registration thresholds. Residents are admitted up to three
// per collector; collectors are admitted while fewer than two collectors and
// at most six residents are registered. Once both reset thresholds are met
// the counters roll over and a new cycle starts.
const (
	residentsPerCollector = 3
	maxCollectorsPerCycle = 2
	maxResidentsPerCycle  = 6
)

type capacityExceededError struct {
	Location      string
	NumResidents  int
	NumCollectors int
}

func (e capacityExceededError) Error() string {
	return fmt.Sprintf("resident limit reached for %s: %d residents against %d collectors",
		e.Location, e.NumResidents, e.NumCollectors)
}

type registrationOnHoldError struct {
	Location string
}

func (e registrationOnHoldError) Error() string {
	return fmt.Sprintf("collector registration is on hold for %s", e.Location)
}

type locationCounts struct {
	NumResidents  int
	NumCollectors int
}

// RegistrationCounters tracks per-location resident and collector
// registration counts. The store is process-local and resets on restart.
type RegistrationCounters struct {
	mu     sync.Mutex
	counts map[string]locationCounts
}

func NewRegistrationCounters() *RegistrationCounters {
	return &RegistrationCounters{counts: make(map[string]locationCounts)}
}

// RegisterResident admits one resident registration for the location, or
// returns capacityExceededError when residents already meet the allowed
// margin over collectors.
func (c *RegistrationCounters) RegisterResident(location string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := c.counts[location]
	if counts.NumResidents >= counts.NumCollectors*residentsPerCollector {
		return capacityExceededError{
			Location:      location,
			NumResidents:  counts.NumResidents,
			NumCollectors: counts.NumCollectors,
		}
	}

	counts.NumResidents++
	c.counts[location] = c.rolledOver(counts)
	return nil
}

// RegisterCollector admits one collector registration for the location, or
// returns registrationOnHoldError when the location already has its
// collectors for the current cycle.
func (c *RegistrationCounters) RegisterCollector(location string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := c.counts[location]
	if counts.NumCollectors >= maxCollectorsPerCycle || counts.NumResidents > maxResidentsPerCycle {
		return registrationOnHoldError{Location: location}
	}

	counts.NumCollectors++
	c.counts[location] = c.rolledOver(counts)
	return nil
}

// rolledOver starts a fresh cycle once both thresholds are met.
func (c *RegistrationCounters) rolledOver(counts locationCounts) locationCounts {
	if counts.NumResidents >= maxResidentsPerCycle && counts.NumCollectors >= maxCollectorsPerCycle {
		return locationCounts{}
	}
	return counts
}

// Snapshot returns the current counts for a location.
func (c *RegistrationCounters) Snapshot(location string) (numResidents, numCollectors int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := c.counts[location]
	return counts.NumResidents, counts.NumCollectors
}

// Reset clears the counters for a location.
func (c *RegistrationCounters) Reset(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.counts, location)
}
