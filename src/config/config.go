package config

import (
	"fmt"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_PARSE_FORMAT = "2006-01-02"

var API_ENV = os.Getenv("API_ENV")

// Pricing holds every rate the surcharge calculator and booking service use.
// Monetary values are in currency minor units (paise); distances in km;
// late fees accrue per started hour.
type Pricing struct {
	FuelChargePerQuarterTank int64    // per quarter tank below the handover level
	LateChargePerHour        int64    // per started hour past scheduled dropoff
	PerDayKmAllowance        uint     // free km included per rental day
	ExtraKmRate              int64    // per km beyond the allowance
	DamageFee                int64    // flat fee when return notes flag damage
	DamageKeywords           []string // case-insensitive substrings that flag damage
	ServiceFeeRate           float64  // fraction of the rental amount added as fees
	Currency                 string
}

func DefaultPricing() Pricing {
	return Pricing{
		FuelChargePerQuarterTank: 50000,  // 500.00 per quarter tank
		LateChargePerHour:        20000,  // 200.00 per hour
		PerDayKmAllowance:        300,    // km per rental day
		ExtraKmRate:              1000,   // 10.00 per km
		DamageFee:                500000, // 5000.00 flat
		DamageKeywords:           []string{"damage", "dent", "scratch", "broken", "crack"},
		ServiceFeeRate:           0.05,
		Currency:                 "inr",
	}
}

// GetPricing returns the default table with env overrides applied. Values are
// read once per call; handlers receive it at construction time so the rates
// never appear as bare literals in domain logic.
func GetPricing() Pricing {
	p := DefaultPricing()
	if v, err := strconv.ParseInt(os.Getenv("PRICING_FUEL_PER_QUARTER"), 10, 64); err == nil {
		p.FuelChargePerQuarterTank = v
	}
	if v, err := strconv.ParseInt(os.Getenv("PRICING_LATE_PER_HOUR"), 10, 64); err == nil {
		p.LateChargePerHour = v
	}
	if v, err := strconv.ParseUint(os.Getenv("PRICING_KM_ALLOWANCE_PER_DAY"), 10, 32); err == nil {
		p.PerDayKmAllowance = uint(v)
	}
	if v, err := strconv.ParseInt(os.Getenv("PRICING_EXTRA_KM_RATE"), 10, 64); err == nil {
		p.ExtraKmRate = v
	}
	if v, err := strconv.ParseInt(os.Getenv("PRICING_DAMAGE_FEE"), 10, 64); err == nil {
		p.DamageFee = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("PRICING_SERVICE_FEE_RATE"), 64); err == nil {
		p.ServiceFeeRate = v
	}
	if v := os.Getenv("PRICING_CURRENCY"); v != "" {
		p.Currency = v
	}
	return p
}
