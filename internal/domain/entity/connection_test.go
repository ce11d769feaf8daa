package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlatformConnection_Expired(t *testing.T) {
	now := time.Now()
	conn := &PlatformConnection{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, conn.Expired(now))
	assert.True(t, conn.Expired(now.Add(time.Hour)))
	assert.True(t, conn.Expired(now.Add(2*time.Hour)))
}
