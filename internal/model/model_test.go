package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderExpiredAt(t *testing.T) {
	deadline := time.Date(2026, 8, 30, 12, 15, 0, 0, time.UTC)
	ord := &Order{Status: OrderPending, ExpiresAt: deadline}

	assert.False(t, ord.ExpiredAt(deadline.Add(-time.Second)))
	assert.False(t, ord.ExpiredAt(deadline), "deadline itself is still inside the window")
	assert.True(t, ord.ExpiredAt(deadline.Add(time.Second)))
}
