package proplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2.5 tỷ", FormatPrice(2_500_000_000))
	assert.Equal(t, "1.0 tỷ", FormatPrice(1_000_000_000))
	assert.Equal(t, "850 triệu", FormatPrice(850_000_000))
	assert.Equal(t, "500000₫", FormatPrice(500_000))
	assert.Equal(t, "0₫", FormatPrice(0))
}
