package fefo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/stockitem"
)

func TestAssign_PrioritizesEarliestExpiry(t *testing.T) {
	today := time.Now()
	binFar := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusAvailable, Barcode: "B1", RemainingCapacity: 8}

	early := Request{StockItemID: uuid.New(), Quantity: 5, ExpirationDate: daysFromNow(today, 1), SequenceNo: 0}
	late := Request{StockItemID: uuid.New(), Quantity: 5, ExpirationDate: daysFromNow(today, 30), SequenceNo: 1}

	result := Assign([]Request{late, early}, []Candidate{binFar}, today)

	assert.Equal(t, binFar.LocationID, result.Assignments[early.StockItemID])
	assert.Contains(t, result.Unassigned, late.StockItemID)
}

func TestAssign_ExcludesNonBinAndIneligibleStatus(t *testing.T) {
	today := time.Now()
	zone := Candidate{LocationID: uuid.New(), LocationType: location.TypeZone, Status: location.StatusAvailable, Barcode: "Z1", RemainingCapacity: 100}
	blockedBin := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusBlocked, Barcode: "B1", RemainingCapacity: 100}
	occupiedFullBin := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusOccupied, Barcode: "B2", RemainingCapacity: 0}

	req := Request{StockItemID: uuid.New(), Quantity: 1, ExpirationDate: nil}

	result := Assign([]Request{req}, []Candidate{zone, blockedBin, occupiedFullBin}, today)

	assert.Contains(t, result.Unassigned, req.StockItemID)
	assert.Empty(t, result.Assignments)
}

func TestAssign_ExcludesExpiredRequests(t *testing.T) {
	today := time.Now()
	bin := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusAvailable, Barcode: "B1", RemainingCapacity: 10}
	req := Request{StockItemID: uuid.New(), Quantity: 1, Classification: stockitem.ClassificationExpired}

	result := Assign([]Request{req}, []Candidate{bin}, today)

	assert.NotContains(t, result.Unassigned, req.StockItemID)
	assert.Empty(t, result.Assignments)
}

func TestAssign_PrefersLargerRemainingCapacityThenBarcode(t *testing.T) {
	today := time.Now()
	small := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusAvailable, Barcode: "A1", RemainingCapacity: 5}
	big := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusAvailable, Barcode: "Z9", RemainingCapacity: 20}

	req := Request{StockItemID: uuid.New(), Quantity: 5}

	result := Assign([]Request{req}, []Candidate{small, big}, today)

	assert.Equal(t, big.LocationID, result.Assignments[req.StockItemID])
}

func TestAssign_PartialResultWhenCapacityExhausted(t *testing.T) {
	today := time.Now()
	bin := Candidate{LocationID: uuid.New(), LocationType: location.TypeBin, Status: location.StatusAvailable, Barcode: "B1", RemainingCapacity: 10}

	first := Request{StockItemID: uuid.New(), Quantity: 8, ExpirationDate: daysFromNow(today, 1), SequenceNo: 0}
	second := Request{StockItemID: uuid.New(), Quantity: 5, ExpirationDate: daysFromNow(today, 2), SequenceNo: 1}

	result := Assign([]Request{first, second}, []Candidate{bin}, today)

	assert.Equal(t, bin.LocationID, result.Assignments[first.StockItemID])
	assert.Contains(t, result.Unassigned, second.StockItemID)
}

func daysFromNow(today time.Time, days int) *time.Time {
	t := today.AddDate(0, 0, days)
	return &t
}
