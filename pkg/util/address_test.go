package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    ParsedAddress
	}{
		{
			name:    "google formatted address",
			address: "R. Tristão de Castro, 1119 - São Benedito, Uberaba - MG, 38022-200",
			want:    ParsedAddress{City: "Uberaba", State: "MG", Country: "Brasil", Confident: true},
		},
		{
			name:    "hyphenated city name",
			address: "Rua A, 10, Embu-Guaçu - SP, Brasil",
			want:    ParsedAddress{City: "Embu-Guaçu", State: "SP", Country: "Brasil", Confident: true},
		},
		{
			name:    "state with trailing text is truncated",
			address: "Av. Brasil, Belo Horizonte - mg 30000",
			want:    ParsedAddress{City: "Belo Horizonte", State: "MG", Country: "Brasil", Confident: true},
		},
		{
			name:    "first matching segment wins",
			address: "Centro - RJ, Niterói - RJ, Brasil",
			want:    ParsedAddress{City: "Centro", State: "RJ", Country: "Brasil", Confident: true},
		},
		{
			name:    "neighborhood truncating to a UF matches first",
			address: "Av. Brasil, 100 - Centro, Uberaba - MG",
			want:    ParsedAddress{City: "100", State: "CE", Country: "Brasil", Confident: true},
		},
		{
			name:    "positional fallback",
			address: "Main St 1, Springfield, Illinois, USA",
			want:    ParsedAddress{City: "Springfield", State: "Illinois", Country: "USA"},
		},
		{
			name:    "fallback with too few segments",
			address: "Somewhere, Portugal",
			want:    ParsedAddress{Country: "Portugal"},
		},
		{
			name:    "empty",
			address: "  ",
			want:    ParsedAddress{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddress(tt.address))
		})
	}
}

func TestIsBrazilianState(t *testing.T) {
	assert.True(t, IsBrazilianState("sp"))
	assert.True(t, IsBrazilianState(" DF "))
	assert.False(t, IsBrazilianState("XX"))
	assert.Len(t, brazilianStates, 27)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "curto", TruncateText("curto", 10, "..."))
	assert.Equal(t, "ação...", TruncateText("ação rápida", 4, "..."))
}
