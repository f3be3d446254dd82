package gallery

import (
	"strings"

	"github.com/pkg/errors"
)

// Tier is a target's rarity class. Small is the common tier, Boss the apex.
type Tier int

const (
	TierSmall Tier = iota
	TierMedium
	TierLarge
	TierBoss
)

// ApexTier is the rarest class; its defeat raises a dedicated event.
const ApexTier = TierBoss

var tierNames = [...]string{"small", "medium", "large", "boss"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return "unknown"
	}
	return tierNames[t]
}

func ParseTier(s string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if name == key {
			return Tier(i), nil
		}
	}
	return 0, errors.Errorf("unknown tier %q", s)
}

// TierSpec is the stat profile a tier maps to at spawn time.
type TierSpec struct {
	Tier        Tier
	Weight      float64 // relative spawn weight
	HP          int
	Reward      int64 // coins per reference unit of stake
	Size        float64
	Speed       float64
	SpeedJitter float64 // extra speed drawn uniformly from [0, SpeedJitter)
}

// DefaultTiers is the reference table, in generator scan order.
func DefaultTiers() []TierSpec {
	return []TierSpec{
		{Tier: TierSmall, Weight: 70, HP: 10, Reward: 20, Size: 30, Speed: 2.0, SpeedJitter: 1},
		{Tier: TierMedium, Weight: 20, HP: 40, Reward: 80, Size: 45, Speed: 1.5},
		{Tier: TierLarge, Weight: 8, HP: 100, Reward: 300, Size: 60, Speed: 1.8},
		{Tier: TierBoss, Weight: 2, HP: 500, Reward: 2000, Size: 80, Speed: 1.5},
	}
}
