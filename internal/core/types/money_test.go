package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocationRate(t *testing.T) {
	assert.Equal(t, 50.0, AllocationRate(5, 10))
	assert.Equal(t, 100.0, AllocationRate(10, 10))
	assert.Equal(t, 33.3, AllocationRate(1, 3))
	assert.Equal(t, 66.7, AllocationRate(2, 3))
	assert.Equal(t, 0.0, AllocationRate(0, 40))
}

func TestAllocationRate_ZeroOriginal(t *testing.T) {
	assert.Equal(t, 0.0, AllocationRate(5, 0))
	assert.Equal(t, 0.0, AllocationRate(5, -1))
}

func TestMulUnits(t *testing.T) {
	price := MustMoney("5.20")
	assert.True(t, MustMoney("52.00").Equal(MulUnits(price, 10)))
	assert.True(t, ZeroMoney().Equal(MulUnits(price, 0)))
}
