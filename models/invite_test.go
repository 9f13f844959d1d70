package models

import (
	"testing"
	"time"
)

func TestInviteExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt string
		expired   bool
	}{
		{"future expiry", now.Add(time.Hour).Format(time.RFC3339), false},
		{"past expiry", now.Add(-time.Hour).Format(time.RFC3339), true},
		{"unparseable expiry is treated as expired", "not-a-time", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invite := Invite{ExpiresAt: tt.expiresAt}
			if got := invite.Expired(now); got != tt.expired {
				t.Errorf("Expired() = %v; want %v", got, tt.expired)
			}
		})
	}
}
