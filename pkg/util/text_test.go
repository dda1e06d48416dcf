package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acai-e-sorvetes", Slugify("Açaí & Sorvetes"))
	assert.Equal(t, "pet-shop", Slugify("  Pet Shop!  "))
	assert.Equal(t, "", Slugify("--"))
	assert.Equal(t, "bar-e-restaurante", Slugify("Bar&Restaurante"))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Car Repair", Humanize("car_repair"))
	assert.Equal(t, "Florist", Humanize("florist"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Padaria Pão Quente", "PÃO"))
	assert.False(t, ContainsFold("Padaria", "mercado"))
}
