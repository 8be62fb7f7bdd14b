package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/localmart/goapi/base/ptr"
)

func TestIsExpired(t *testing.T) {
	now := time.Now()

	fresh := &Listing{CreatedAt: now.Add(-24 * time.Hour)}
	assert.False(t, fresh.IsExpired(now))

	old := &Listing{CreatedAt: now.Add(-40 * 24 * time.Hour)}
	assert.True(t, old.IsExpired(now))

	// renewal resets the window even for a 40 day old listing
	renewed := &Listing{
		CreatedAt: now.Add(-40 * 24 * time.Hour),
		RenewedAt: ptr.Time(now.Add(-24 * time.Hour)),
	}
	assert.False(t, renewed.IsExpired(now))

	edge := &Listing{CreatedAt: now.Add(-30 * 24 * time.Hour)}
	assert.False(t, edge.IsExpired(now), "exactly 30 days old is not expired yet")
}

func TestBoostIsActive(t *testing.T) {
	now := time.Now()

	b := &Boost{ActivatedAt: now.Add(-23 * time.Hour), DurationHours: 24}
	assert.True(t, b.IsActive(now))

	expired := &Boost{ActivatedAt: now.Add(-25 * time.Hour), DurationHours: 24}
	assert.False(t, expired.IsActive(now))

	l := &Listing{}
	assert.False(t, l.IsBoosted(now))
	l.Boost = b
	assert.True(t, l.IsBoosted(now))
	l.Boost = expired
	assert.False(t, l.IsBoosted(now))
}
