package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// Uberaba to Uberlândia, roughly 100 km apart
	d := CalculateDistance(-19.7472, -47.9381, -18.9186, -48.2772)
	assert.InDelta(t, 98.0, d, 5.0)

	assert.Zero(t, CalculateDistance(-19.7, -47.9, -19.7, -47.9))
	assert.Equal(t, d, DistanceBetween(GeoPoint{-19.7472, -47.9381}, GeoPoint{-18.9186, -48.2772}))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "350 m", FormatDistance(0.35))
	assert.Equal(t, "1.2 km", FormatDistance(1.234))
	assert.Equal(t, "3 km", FormatDistance(3.01))
	assert.Equal(t, "0 m", FormatDistance(0))
}
