package repository

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDiscountedTotalCents(t *testing.T) {
    cases := []struct {
        name    string
        total   int64
        percent float64
        want    int64
    }{
        {"no discount", 5000, 0, 5000},
        {"negative clamps to none", 5000, -5, 5000},
        {"ten percent", 5000, 10, 4500},
        {"rounds to nearest cent", 999, 33.33, 666},
        {"full discount", 5000, 100, 0},
        {"above full clamps to zero", 5000, 150, 0},
        {"zero total", 0, 10, 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, DiscountedTotalCents(tc.total, tc.percent))
        })
    }
}

func TestSplitSettlementSumsExactly(t *testing.T) {
    cases := []struct {
        name    string
        lines   []int64
        charged int64
    }{
        {"two equal lines", []int64{2500, 2500}, 4500},
        {"uneven lines", []int64{1999, 350, 4999}, 6613},
        {"single line", []int64{1234}, 1111},
        {"leftover cents spread across lines", []int64{100, 100, 100}, 250},
        {"free lines", []int64{0, 500}, 450},
        {"cumulative round-up", []int64{1, 1, 1, 1}, 2},
        {"more lines than cents", []int64{1, 1, 1}, 1},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := SplitSettlement(tc.lines, tc.charged)
            require.Len(t, got, len(tc.lines))
            var sum int64
            for i, a := range got {
                assert.GreaterOrEqual(t, a, int64(0), "line %d", i)
                sum += a
            }
            assert.Equal(t, tc.charged, sum)
        })
    }
}

func TestSplitSettlementHalfOffPennyLines(t *testing.T) {
    // Four 1-cent lines at 50% discount: naive per-line rounding would
    // assign 1+1+1 and force the last line negative. Apportionment must
    // keep every audit row non-negative and the sum exact.
    charged := DiscountedTotalCents(4, 50)
    require.Equal(t, int64(2), charged)

    got := SplitSettlement([]int64{1, 1, 1, 1}, charged)
    var sum int64
    for i, a := range got {
        assert.GreaterOrEqual(t, a, int64(0), "line %d", i)
        assert.LessOrEqual(t, a, int64(1), "line %d", i)
        sum += a
    }
    assert.Equal(t, charged, sum)
}

func TestSplitSettlementProportional(t *testing.T) {
    // 10% off two lines of 2500 should split the 4500 evenly.
    got := SplitSettlement([]int64{2500, 2500}, 4500)
    assert.Equal(t, []int64{2250, 2250}, got)
}

func TestSplitSettlementEmpty(t *testing.T) {
    assert.Empty(t, SplitSettlement(nil, 0))
}
