// Package fefo implements the First-Expired-First-Out stock assignment
// algorithm: matching unassigned StockItem requests to BIN Locations,
// prioritizing earliest expiry. The service is a pure function of its
// inputs plus "today" for classification-based exclusion.
package fefo

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/stockitem"
)

// Request is one stock item seeking a BIN assignment.
type Request struct {
	StockItemID    uuid.UUID
	Quantity       int
	ExpirationDate *time.Time
	Classification stockitem.Classification
	// SequenceNo breaks ties between requests with an identical
	// ExpirationDate (insertion order / createdAt ordinal).
	SequenceNo int
}

// Candidate is a BIN location eligible to receive an assignment.
type Candidate struct {
	LocationID        uuid.UUID
	LocationType       location.Type
	Status             location.Status
	Barcode            string
	RemainingCapacity  int
}

// Result is the outcome of an Assign call.
type Result struct {
	// Assignments maps stockItemId -> locationId for every request that
	// found a fitting BIN.
	Assignments map[uuid.UUID]uuid.UUID
	// Unassigned lists the stock item ids that found no fitting BIN. This
	// is a normal partial result, not an error.
	Unassigned []uuid.UUID
}

// Assign runs the greedy FEFO matching algorithm:
//  1. Filter candidates to BIN locations with status AVAILABLE or RESERVED
//     and remaining capacity > 0.
//  2. Sort requests by (expirationDate ascending, nulls last), then by
//     SequenceNo.
//  3. Sort BIN candidates by (remainingCapacity descending, barcode
//     ascending).
//  4. Walk requests greedily, assigning each to the first BIN that can
//     accommodate its quantity, decrementing that BIN's working capacity.
//
// Requests already classified EXPIRED are excluded entirely, reflecting
// "today" via the classification the caller already computed.
func Assign(requests []Request, candidates []Candidate, today time.Time) Result {
	_ = today // classification-based exclusion happens via Request.Classification, computed by the caller against today.

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.LocationType != location.TypeBin {
			continue
		}
		if c.Status != location.StatusAvailable && c.Status != location.StatusReserved {
			continue
		}
		if c.RemainingCapacity <= 0 {
			continue
		}
		eligible = append(eligible, c)
	}

	sortedRequests := make([]Request, 0, len(requests))
	for _, r := range requests {
		if r.Classification == stockitem.ClassificationExpired {
			continue
		}
		sortedRequests = append(sortedRequests, r)
	}
	sort.SliceStable(sortedRequests, func(i, j int) bool {
		a, b := sortedRequests[i], sortedRequests[j]
		if a.ExpirationDate == nil && b.ExpirationDate == nil {
			return a.SequenceNo < b.SequenceNo
		}
		if a.ExpirationDate == nil {
			return false
		}
		if b.ExpirationDate == nil {
			return true
		}
		if !a.ExpirationDate.Equal(*b.ExpirationDate) {
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		return a.SequenceNo < b.SequenceNo
	})

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].RemainingCapacity != eligible[j].RemainingCapacity {
			return eligible[i].RemainingCapacity > eligible[j].RemainingCapacity
		}
		return eligible[i].Barcode < eligible[j].Barcode
	})

	result := Result{Assignments: make(map[uuid.UUID]uuid.UUID)}
	for _, req := range sortedRequests {
		assigned := false
		for i := range eligible {
			if eligible[i].RemainingCapacity >= req.Quantity {
				result.Assignments[req.StockItemID] = eligible[i].LocationID
				eligible[i].RemainingCapacity -= req.Quantity
				assigned = true
				break
			}
		}
		if !assigned {
			result.Unassigned = append(result.Unassigned, req.StockItemID)
		}
	}

	return result
}
