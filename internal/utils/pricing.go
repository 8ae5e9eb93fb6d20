package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
)

// StayCostBreakdown provides a detailed cost breakdown for a stay
type StayCostBreakdown struct {
	Nights          int32
	NightlyCents    int32
	TotalPriceCents int32
}

// CalculateStayCost prices [start, end) at the room's nightly rate.
func CalculateStayCost(room domain.Room, start, end time.Time) (StayCostBreakdown, error) {
	nights := availability.Nights(start, end)
	if nights <= 0 {
		return StayCostBreakdown{}, fmt.Errorf("stay must be at least one night")
	}
	if room.PriceCents < 0 {
		return StayCostBreakdown{}, fmt.Errorf("room %d has a negative price", room.ID)
	}
	return StayCostBreakdown{
		Nights:          nights,
		NightlyCents:    room.PriceCents,
		TotalPriceCents: nights * room.PriceCents,
	}, nil
}

// InvoiceNumber formats INV-{year}-{zero-padded id}. It is derived from the
// reservation's own id so no separate counter can race.
func InvoiceNumber(year int, reservationID int32) string {
	return fmt.Sprintf("INV-%d-%06d", year, reservationID)
}

// NewReservationCode returns a short human-readable booking reference.
func NewReservationCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RES-" + strings.ToUpper(raw[:8])
}

// FormatCents renders an amount in cents as a decimal string, e.g. 12345 -> "123.45".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
