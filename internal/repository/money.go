package repository

import (
    "math"
    "sort"
)

// DiscountedTotalCents applies a percentage discount in [0,100] to an
// amount in cents, rounding to the nearest cent. All money math happens
// in integer cents; percentages are the only floating point input.
func DiscountedTotalCents(totalCents int64, discountPercent float64) int64 {
    if discountPercent <= 0 {
        return totalCents
    }
    if discountPercent >= 100 {
        return 0
    }
    return int64(math.Round(float64(totalCents) * (1 - discountPercent/100)))
}

// SplitSettlement distributes a charged total across cart lines in
// proportion to their undiscounted amounts, using largest-remainder
// apportionment: every line gets its proportional share rounded down,
// then the leftover cents go one each to the lines with the largest
// fractional remainders. Shares are never negative and always sum to
// exactly chargedCents. The slice is empty when lineCents is empty.
func SplitSettlement(lineCents []int64, chargedCents int64) []int64 {
    out := make([]int64, len(lineCents))
    if len(lineCents) == 0 {
        return out
    }
    var total int64
    for _, c := range lineCents {
        total += c
    }
    if total <= 0 {
        // Every line is free; whatever was charged lands on the last
        // line so the invariant on the sum still holds.
        out[len(out)-1] = chargedCents
        return out
    }

    type remainder struct {
        idx  int
        frac int64 // numerator of the fractional part, over total
    }
    rems := make([]remainder, len(lineCents))
    var assigned int64
    for i, c := range lineCents {
        num := chargedCents * c
        out[i] = num / total
        rems[i] = remainder{idx: i, frac: num % total}
        assigned += out[i]
    }
    // The floors undershoot by less than one cent per line, so the
    // leftover is in [0, len).
    sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
    for i := int64(0); i < chargedCents-assigned; i++ {
        out[rems[i].idx]++
    }
    return out
}
