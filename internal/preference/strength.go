package preference

import "time"

// Strength recomputes a record's current weight in [0, MaxStrength].
// Zero until enough observations accumulate and the positive ratio clears its
// floor; then the ratio is rescaled, decayed by days since the last
// observation, and weighted by how many observations back it.
func Strength(rec Record, tun Tunables, now time.Time) float64 {
	total := rec.PositiveCount + rec.NegativeCount
	if total < tun.MinObservations {
		return 0
	}

	ratio := float64(rec.PositiveCount) / float64(total)
	if ratio < tun.PositiveRatioMin {
		return 0
	}

	// Rescale [ratioMin, 1.0] onto [0, 1].
	base := (ratio - tun.PositiveRatioMin) / (1.0 - tun.PositiveRatioMin)

	days := now.Sub(rec.LastObserved).Hours() / 24
	if days < 0 {
		days = 0
	}
	decay := 1.0 - days*tun.DecayPerDay
	if decay < 0 {
		decay = 0
	}

	bonus := float64(total) / float64(tun.ObservationCap)
	if bonus > 1.0 {
		bonus = 1.0
	}

	strength := base * decay * bonus
	if strength > tun.MaxStrength {
		strength = tun.MaxStrength
	}
	return strength
}

// expired reports whether a record should be purged: past its TTL or decayed
// below the purge floor.
func expired(rec Record, tun Tunables, now time.Time) bool {
	if now.Sub(rec.LastObserved) > tun.TTL {
		return true
	}
	total := rec.PositiveCount + rec.NegativeCount
	if total < tun.MinObservations {
		// Too sparse to score; keep until the TTL says otherwise.
		return false
	}
	return Strength(rec, tun, now) < tun.PurgeThreshold
}
