package ptr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	assert.Equal(t, "a", *String("a"))
	assert.Equal(t, 1, *Int(1))
	assert.Equal(t, int32(2), *Int32(2))
	assert.Equal(t, int64(3), *Int64(3))
	assert.Equal(t, true, *Bool(true))
	now := time.Now()
	assert.Equal(t, now, *Time(now))
}
