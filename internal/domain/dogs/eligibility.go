package dogs

import (
	"fmt"
	"time"
)

// Umbrales de aptitud para donar.
const (
	MinWeightKg              = 25.0
	MinAgeYears              = 1
	MaxAgeYears              = 8
	MinWeeksBetweenDonations = 8
)

// Evaluation es el resultado de evaluar aptitud. Si Eligible es false,
// Reasons trae todas las reglas incumplidas (no solo la primera).
type Evaluation struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
}

// Evaluate aplica las reglas de aptitud para donar sangre. Función pura:
// el "ahora" entra como parámetro y no hay I/O. La semana se calcula como
// días/7, igual que la edad con días/365.
func Evaluate(d Dog, now time.Time) Evaluation {
	reasons := make([]string, 0)

	if !d.Active {
		reasons = append(reasons, "profile is not marked as available for donation")
	}

	if d.WeightKg < MinWeightKg {
		reasons = append(reasons, "weight must be at least 25kg")
	}

	age := d.AgeYears(now)
	if age < MinAgeYears || age > MaxAgeYears {
		reasons = append(reasons, "age must be between 1-8 years")
	}

	if d.LastDonationDate != nil {
		weeks := daysBetween(*d.LastDonationDate, now) / 7
		if weeks < MinWeeksBetweenDonations {
			reasons = append(reasons, fmt.Sprintf("last donation was only %d weeks ago (need 8+)", weeks))
		}
	}

	return Evaluation{
		Eligible: len(reasons) == 0,
		Reasons:  reasons,
	}
}
