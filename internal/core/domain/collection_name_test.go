package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTableName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Plush Pepe", want: "plushpepes"},
		{in: "Jelly Bunny #12", want: "jellybunnys"},
		{in: "Swiss Watches", want: "swisswatches"},
		{in: "  Lol  Pop  ", want: "lolpops"},
		{in: "B-Day Candle", want: "b-daycandles"},
		{in: "123 #", want: "s"},
		{in: "", want: "s"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTableName(tt.in))
		})
	}
}

func TestResolveTableNameIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, ResolveTableName("Plush Pepe"), ResolveTableName("plush pepe 7"))
	}
}

func TestDisplayNameFromTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plushpepes", want: "Plushpepe"},
		{in: "PlushPepes", want: "Plush Pepe"},
		{in: "jellyBunnys", want: "Jelly Bunny"},
		{in: "swisswatches", want: "Swisswatche"},
		{in: "s", want: ""},
		{in: "NFTs", want: "NFT"},
		{in: "b-daycandles", want: "B-Daycandle"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayNameFromTable(tt.in))
		})
	}
}
