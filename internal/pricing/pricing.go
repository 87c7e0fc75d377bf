package pricing

import (
	"math"
	"time"

	"rentalops-backend/internal/domain"
)

// Breakdown is the day-by-day pricing result for a booking.
type Breakdown struct {
	Days          int
	Total         float64
	BaseAmount    float64 // pre-discount amount, what the main invoice line shows
	DiscountTotal float64 // discountPerDay x Days, the negative invoice line
}

// TotalDays charges whole days: partial days round up and same-day rentals
// still bill one day.
func TotalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// seasonFor returns the first season containing the day, in the order the
// seasons were supplied. Overlapping seasons are allowed; first match wins.
func seasonFor(day time.Time, seasons []domain.Season) *domain.Season {
	for i := range seasons {
		if seasons[i].Contains(day) {
			return &seasons[i]
		}
	}
	return nil
}

// Quote walks the rental period one calendar day at a time, starting at the
// start date, for exactly TotalDays iterations. Each day is priced at the base
// rate scaled by the matching season's multiplier, then discounted, with a
// floor of zero per day. No rounding happens inside the loop; the sum is
// returned as computed.
func Quote(baseDailyRate float64, start, end time.Time, discountPerDay float64, seasons []domain.Season) Breakdown {
	days := TotalDays(start, end)

	var total float64
	day := start
	for i := 0; i < days; i++ {
		rate := baseDailyRate
		if s := seasonFor(day, seasons); s != nil {
			rate *= s.PriceMultiplier
		}
		rate = math.Max(0, rate-discountPerDay)
		total += rate
		day = day.AddDate(0, 0, 1)
	}

	discountTotal := discountPerDay * float64(days)
	return Breakdown{
		Days:          days,
		Total:         total,
		BaseAmount:    total + discountTotal,
		DiscountTotal: discountTotal,
	}
}
