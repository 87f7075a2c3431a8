package indicators

import (
	"gitlab.com/aoterocom/cointrader/models"
)

// Followtrend is a single-pass support/resistance scan over a value
// series. While the trend is monotonic it only hunts for a resistance
// (first drop) and a support (first rise). Once both are set the series
// is in correction phase: breaking the resistance by more than sluggish
// percent emits BUY and keeps the old resistance as the new support,
// breaking the support emits SELL and keeps the old support as the new
// resistance. The signal returned for the whole series is the last
// transition observed; a flat or purely monotonic series keeps emitting
// WAIT, which is intended.
func Followtrend(points []models.ChartPoint, sluggish float64) (models.Signal, error) {
	if len(points) == 0 {
		return models.Signal{}, ErrNotEnoughData
	}

	var support, resistance *float64
	last := points[0].Value
	action := models.WAIT
	date := points[0].Date

	for _, point := range points {
		v := point.Value
		date = point.Date
		if resistance == nil && v < last {
			r := last
			resistance = &r
		}
		if support == nil && v > last {
			s := last
			support = &s
		}
		if resistance != nil && support != nil {
			switch {
			case breaksResistance(v, *resistance, sluggish):
				support = resistance
				resistance = nil
				action = models.BUY
			case breaksSupport(v, *support, sluggish):
				resistance = support
				support = nil
				action = models.SELL
			default:
				action = models.WAIT
			}
		}
		last = v
	}

	return models.NewSignal(action, date, "followtrend"), nil
}

func breaksResistance(v float64, resistance float64, sluggish float64) bool {
	return v > resistance+(resistance/100*sluggish)
}

func breaksSupport(v float64, support float64, sluggish float64) bool {
	return v < support-(support/100*sluggish)
}
