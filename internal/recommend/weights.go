package recommend

// Weights configures the relative influence of the three overwrite signals.
// It is an immutable value normalized fresh on every recommendation call, so
// no state leaks between requests.
type Weights struct {
	User    float64
	Similar float64
	DB      float64
	// Decay discounts the similar-user and database signals relative to the
	// user's own history. 1 means no discount.
	Decay float64
}

// DefaultWeights returns the standard signal weighting.
func DefaultWeights() Weights {
	return Weights{
		User:    0.5,
		Similar: 0.3,
		DB:      0.2,
		Decay:   1.0,
	}
}

// normalized returns a copy with the decay applied to the similar and
// database components and the three components scaled to sum to 1. A weight
// set that sums to zero normalizes to the defaults.
func (w Weights) normalized() Weights {
	decay := w.Decay
	if decay <= 0 {
		decay = 1
	}

	user := w.User
	similar := w.Similar * decay
	db := w.DB * decay

	sum := user + similar + db
	if sum <= 0 {
		return DefaultWeights().normalized()
	}

	return Weights{
		User:    user / sum,
		Similar: similar / sum,
		DB:      db / sum,
		Decay:   1,
	}
}
