package common

import (
	"fmt"
	"math"
	"strings"
	"time"

	"crbs/src/config"
	"crbs/src/models"
	"crbs/src/types"
)

// ComputeReturnSurcharges derives the additional charges assessed when a
// vehicle comes back: fuel shortfall, late return, excess distance and a flat
// damage fee. Each applicable rule contributes one line; Total is their sum.
// All inputs are passed explicitly and nothing is read from or written to
// storage, so the function is deterministic and unit-testable on its own.
func ComputeReturnSurcharges(handover *models.HandoverRecord, ret *models.ReturnRecord, scheduledDropoff, now time.Time, cfg config.Pricing) ([]types.SurchargeLine, int64) {
	charges := []types.SurchargeLine{}
	var total int64

	// Fuel shortfall: proportional to the fraction of tank consumed below the
	// handover level, scaled so a full-tank difference costs four quarter-tank
	// charges.
	handoverPct, hok := handover.FuelLevel.Percent()
	returnPct, rok := ret.FuelLevel.Percent()
	if hok && rok && returnPct < handoverPct {
		shortfall := handoverPct - returnPct
		amount := int64(shortfall) * 4 * cfg.FuelChargePerQuarterTank / 100
		charges = append(charges, types.SurchargeLine{
			Type:        types.SURCHARGE_FUEL,
			Description: fmt.Sprintf("fuel returned at %s, handed over at %s", ret.FuelLevel, handover.FuelLevel),
			Amount:      amount,
		})
		total += amount
	}

	// Late return: every started hour past the scheduled dropoff counts.
	if now.After(scheduledDropoff) {
		hoursLate := int64(math.Ceil(now.Sub(scheduledDropoff).Hours()))
		amount := hoursLate * cfg.LateChargePerHour
		charges = append(charges, types.SurchargeLine{
			Type:        types.SURCHARGE_LATE,
			Description: fmt.Sprintf("returned %d hour(s) after scheduled dropoff", hoursLate),
			Amount:      amount,
		})
		total += amount
	}

	// Excess distance beyond the per-day km allowance.
	days := RentalDays(handover.Timestamp, scheduledDropoff)
	allowedKm := uint(days) * cfg.PerDayKmAllowance
	if ret.Odometer > handover.Odometer {
		driven := ret.Odometer - handover.Odometer
		if driven > allowedKm {
			extraKm := driven - allowedKm
			amount := int64(extraKm) * cfg.ExtraKmRate
			charges = append(charges, types.SurchargeLine{
				Type:        types.SURCHARGE_DISTANCE,
				Description: fmt.Sprintf("%d km driven, %d km included", driven, allowedKm),
				Amount:      amount,
			})
			total += amount
		}
	}

	// Damage flag: a keyword in the return condition notes adds the flat fee.
	notes := strings.ToLower(ret.ConditionNotes)
	for _, kw := range cfg.DamageKeywords {
		if kw != "" && strings.Contains(notes, strings.ToLower(kw)) {
			charges = append(charges, types.SurchargeLine{
				Type:        types.SURCHARGE_DAMAGE,
				Description: "damage reported in return inspection notes",
				Amount:      cfg.DamageFee,
			})
			total += cfg.DamageFee
			break
		}
	}

	return charges, total
}
