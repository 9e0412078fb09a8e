package invitation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	expiry := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status Status
		now    time.Time
		want   Status
	}{
		{"pending before expiry", StatusPending, expiry.Add(-time.Second), StatusPending},
		{"pending at expiry reads expired", StatusPending, expiry, StatusExpired},
		{"pending after expiry reads expired", StatusPending, expiry.Add(time.Hour), StatusExpired},
		{"accepted is terminal past expiry", StatusAccepted, expiry.Add(time.Hour), StatusAccepted},
		{"revoked is terminal past expiry", StatusRevoked, expiry.Add(time.Hour), StatusRevoked},
		{"expired stays expired", StatusExpired, expiry.Add(-time.Hour), StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invitation{Status: tt.status, ExpiresAt: expiry}
			assert.Equal(t, tt.want, EffectiveStatus(inv, tt.now))
		})
	}
}
