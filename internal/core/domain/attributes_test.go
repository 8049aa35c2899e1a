package domain

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPriority = []string{"Model", "Backdrop", "Symbol"}

func TestAttributeTallyPlushPepe(t *testing.T) {
	tally := NewAttributeTally()
	for i := 1; i <= 50; i++ {
		model := "A"
		if i > 25 {
			model = "B"
		}
		tally.Add([]Attribute{
			{TraitType: "Model", Value: model},
			{TraitType: "Rarity", Value: "common"},
		})
	}

	dist := tally.Distribution(defaultPriority)

	require.Contains(t, dist, "Model")
	assert.NotContains(t, dist, "Rarity")
	assert.Equal(t, AttributeStat{Count: 25, Percentage: "50.00"}, dist["Model"]["A"])
	assert.Equal(t, AttributeStat{Count: 25, Percentage: "50.00"}, dist["Model"]["B"])
	assert.Equal(t, 50, tally.Rows())
}

func TestAttributeTallyCaseInsensitivePriority(t *testing.T) {
	tally := NewAttributeTally()
	tally.Add([]Attribute{{TraitType: "model", Value: "X"}, {TraitType: "BACKDROP", Value: "Y"}})

	dist := tally.Distribution(defaultPriority)

	assert.Contains(t, dist, "model")
	assert.Contains(t, dist, "BACKDROP")
	assert.Equal(t, "100.00", dist["model"]["X"].Percentage)
}

func TestAttributeTallyZeroRows(t *testing.T) {
	dist := NewAttributeTally().Distribution(defaultPriority)
	assert.Empty(t, dist)
	assert.Equal(t, "0.00", FormatPercentage(0, 0))
}

func TestAttributeTallyEmptyAttributesStillCountRows(t *testing.T) {
	tally := NewAttributeTally()
	tally.Add(nil)
	tally.Add([]Attribute{{TraitType: "Model", Value: "A"}})
	tally.Add([]Attribute{})
	tally.Add([]Attribute{{TraitType: "Model", Value: "A"}})

	dist := tally.Distribution(defaultPriority)
	assert.Equal(t, "50.00", dist["Model"]["A"].Percentage)
}

func TestAttributeTallyDuplicateTraitCountedOnce(t *testing.T) {
	tally := NewAttributeTally()
	tally.Add([]Attribute{{TraitType: "Model", Value: "A"}, {TraitType: "Model", Value: "B"}})

	dist := tally.Distribution(defaultPriority)
	assert.Equal(t, 1, dist["Model"]["A"].Count)
	assert.NotContains(t, dist["Model"], "B")
}

func TestPercentageInvariant(t *testing.T) {
	tally := NewAttributeTally()
	for i := 0; i < 37; i++ {
		attrs := []Attribute{{TraitType: "Symbol", Value: fmt.Sprintf("s%d", i%7)}}
		if i%3 != 0 {
			attrs = append(attrs, Attribute{TraitType: "Model", Value: fmt.Sprintf("m%d", i%4)})
		}
		tally.Add(attrs)
	}

	for trait, values := range tally.Distribution(defaultPriority) {
		total := 0
		pct := 0.0
		for _, st := range values {
			total += st.Count
			p, err := strconv.ParseFloat(st.Percentage, 64)
			require.NoError(t, err)
			pct += p
		}
		assert.LessOrEqual(t, total, tally.Rows(), trait)
		assert.LessOrEqual(t, pct, 100.0+0.01*float64(len(values)), trait)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "33.33", FormatPercentage(1, 3))
	assert.Equal(t, "66.67", FormatPercentage(2, 3))
	assert.Equal(t, "100.00", FormatPercentage(4, 4))
}
