package domain

// Tier is a loyalty level derived solely from a user's active policy
// count. It is always recomputed from the count, never adjusted
// incrementally, so it cannot drift.
type Tier string

const (
	TierWooden Tier = "WOODEN"
	TierBronze Tier = "BRONZE"
	TierSilver Tier = "SILVER"
	TierGold   Tier = "GOLD"
)

// TierFor maps an active policy count to a loyalty tier.
// Cutoffs: 0 -> WOODEN, 1 -> BRONZE, 2 -> SILVER, 3+ -> GOLD.
func TierFor(activePolicyCount int) Tier {
	switch {
	case activePolicyCount >= 3:
		return TierGold
	case activePolicyCount == 2:
		return TierSilver
	case activePolicyCount == 1:
		return TierBronze
	default:
		return TierWooden
	}
}

// CashbackPercent returns the fixed cashback rate granted by the tier
func (t Tier) CashbackPercent() float64 {
	switch t {
	case TierGold:
		return 15
	case TierSilver:
		return 10
	case TierBronze:
		return 5
	default:
		return 2
	}
}
