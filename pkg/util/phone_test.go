package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	got, ok := NormalizePhone("(34) 99876-5432", "")
	assert.True(t, ok)
	assert.Equal(t, "+5534998765432", got)

	got, ok = NormalizePhone("+55 11 3333-4444", "BR")
	assert.True(t, ok)
	assert.Equal(t, "+551133334444", got)

	_, ok = NormalizePhone("123", "")
	assert.False(t, ok)

	_, ok = NormalizePhone("   ", "")
	assert.False(t, ok)
}

func TestWhatsApp(t *testing.T) {
	assert.True(t, IsMobilePhone("+5534998765432"))
	assert.Equal(t, "https://wa.me/5534998765432", WhatsAppLink("+5534998765432"))
	assert.Equal(t, "", WhatsAppLink(""))
}
