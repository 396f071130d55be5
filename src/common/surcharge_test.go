package common

import (
	"testing"
	"time"

	"crbs/src/config"
	"crbs/src/models"
	"crbs/src/types"

	"github.com/stretchr/testify/assert"
)

func lineByType(charges []types.SurchargeLine, t types.SurchargeType) *types.SurchargeLine {
	for i := range charges {
		if charges[i].Type == t {
			return &charges[i]
		}
	}
	return nil
}

func TestReturnSurchargesLateFuelAndDistance(t *testing.T) {
	cfg := config.DefaultPricing()
	cfg.PerDayKmAllowance = 100
	pickup := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	scheduledDropoff := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	returnedAt := scheduledDropoff.Add(2 * time.Hour)

	handover := &models.HandoverRecord{
		Odometer:  10000,
		FuelLevel: types.FUEL_FULL,
		Timestamp: pickup,
	}
	ret := &models.ReturnRecord{
		Odometer:  10350,
		FuelLevel: types.FUEL_HALF,
		Timestamp: returnedAt,
	}

	charges, total := ComputeReturnSurcharges(handover, ret, scheduledDropoff, returnedAt, cfg)

	// Half a tank short: 2 quarter-tank charges.
	fuel := lineByType(charges, types.SURCHARGE_FUEL)
	assert.NotNil(t, fuel)
	assert.Equal(t, 2*cfg.FuelChargePerQuarterTank, fuel.Amount)

	// 2 full hours late.
	late := lineByType(charges, types.SURCHARGE_LATE)
	assert.NotNil(t, late)
	assert.Equal(t, 2*cfg.LateChargePerHour, late.Amount)

	// 350 km driven over a 3-day rental with 300 km included.
	distance := lineByType(charges, types.SURCHARGE_DISTANCE)
	assert.NotNil(t, distance)
	assert.Equal(t, 50*cfg.ExtraKmRate, distance.Amount)

	assert.Nil(t, lineByType(charges, types.SURCHARGE_DAMAGE))
	assert.Equal(t, fuel.Amount+late.Amount+distance.Amount, total)
	assert.Len(t, charges, 3)
}

func TestReturnSurchargesCleanReturn(t *testing.T) {
	cfg := config.DefaultPricing()
	pickup := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	scheduledDropoff := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	returnedAt := scheduledDropoff.Add(-3 * time.Hour)

	handover := &models.HandoverRecord{Odometer: 5000, FuelLevel: types.FUEL_FULL, Timestamp: pickup}
	ret := &models.ReturnRecord{Odometer: 5200, FuelLevel: types.FUEL_FULL, Timestamp: returnedAt}

	charges, total := ComputeReturnSurcharges(handover, ret, scheduledDropoff, returnedAt, cfg)
	assert.Empty(t, charges)
	assert.Equal(t, int64(0), total)
}

func TestReturnSurchargesPartialHourCountsAsFull(t *testing.T) {
	cfg := config.DefaultPricing()
	scheduledDropoff := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	returnedAt := scheduledDropoff.Add(61 * time.Minute)

	handover := &models.HandoverRecord{Odometer: 100, FuelLevel: types.FUEL_FULL, Timestamp: scheduledDropoff.AddDate(0, 0, -1)}
	ret := &models.ReturnRecord{Odometer: 150, FuelLevel: types.FUEL_FULL, Timestamp: returnedAt}

	charges, total := ComputeReturnSurcharges(handover, ret, scheduledDropoff, returnedAt, cfg)
	late := lineByType(charges, types.SURCHARGE_LATE)
	assert.NotNil(t, late)
	assert.Equal(t, 2*cfg.LateChargePerHour, late.Amount)
	assert.Equal(t, late.Amount, total)
}

func TestReturnSurchargesExcessDistance(t *testing.T) {
	cfg := config.DefaultPricing()
	pickup := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	scheduledDropoff := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	// 2 rental days: 600 km included, 700 driven.
	handover := &models.HandoverRecord{Odometer: 20000, FuelLevel: types.FUEL_HALF, Timestamp: pickup}
	ret := &models.ReturnRecord{Odometer: 20700, FuelLevel: types.FUEL_HALF, Timestamp: scheduledDropoff}

	charges, total := ComputeReturnSurcharges(handover, ret, scheduledDropoff, scheduledDropoff, cfg)
	distance := lineByType(charges, types.SURCHARGE_DISTANCE)
	assert.NotNil(t, distance)
	assert.Equal(t, 100*cfg.ExtraKmRate, distance.Amount)
	assert.Equal(t, distance.Amount, total)
}

func TestReturnSurchargesFuelGainIsNotCredited(t *testing.T) {
	cfg := config.DefaultPricing()
	now := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	handover := &models.HandoverRecord{Odometer: 100, FuelLevel: types.FUEL_QUARTER, Timestamp: now.AddDate(0, 0, -1)}
	ret := &models.ReturnRecord{Odometer: 120, FuelLevel: types.FUEL_FULL, Timestamp: now}

	charges, total := ComputeReturnSurcharges(handover, ret, now, now, cfg)
	assert.Nil(t, lineByType(charges, types.SURCHARGE_FUEL))
	assert.Equal(t, int64(0), total)
}

func TestReturnSurchargesDamageKeyword(t *testing.T) {
	cfg := config.DefaultPricing()
	now := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	handover := &models.HandoverRecord{Odometer: 100, FuelLevel: types.FUEL_FULL, Timestamp: now.AddDate(0, 0, -1)}
	ret := &models.ReturnRecord{
		Odometer:       150,
		FuelLevel:      types.FUEL_FULL,
		ConditionNotes: "Scratch on rear left door",
		Timestamp:      now,
	}

	charges, total := ComputeReturnSurcharges(handover, ret, now, now, cfg)
	damage := lineByType(charges, types.SURCHARGE_DAMAGE)
	assert.NotNil(t, damage)
	assert.Equal(t, cfg.DamageFee, damage.Amount)
	assert.Equal(t, cfg.DamageFee, total)

	// One flat fee even when multiple keywords match.
	ret.ConditionNotes = "scratch and dent, mirror broken"
	charges, total = ComputeReturnSurcharges(handover, ret, now, now, cfg)
	assert.Len(t, charges, 1)
	assert.Equal(t, cfg.DamageFee, total)
}
