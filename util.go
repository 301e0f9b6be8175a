package main

import (
	"fmt"
	"sort"
	"strings"

	"WeaponDPSSimulator/internal/dps"
)

// percentileFloor returns the value that the given share of samples meets
// or exceeds. samples is sorted in place.
func percentileFloor(samples []float64, share float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sort.Float64s(samples)
	index := int((1 - share) * float64(len(samples)))
	if index >= len(samples) {
		index = len(samples) - 1
	}
	return samples[index]
}

func formatRankings(rankings []dps.Ranking, top int) string {
	var b strings.Builder
	for i, r := range rankings {
		if top > 0 && i >= top {
			break
		}
		fmt.Fprintf(&b, "%2d. %-28s %+7.2f%%\n", i+1, r.Card.Name, r.Gain*100)
	}
	return b.String()
}
