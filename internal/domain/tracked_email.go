package domain

import (
	"strings"
	"time"
)

// TrackedEmail is one outbound email the owner wants open-tracking for.
// The row is created pending (Seen=false) when the tracking pixel is issued
// and transitions to seen exactly once, on the first pixel fetch that wins
// the conditional update. Seen never reverts and SeenAt is never overwritten.
type TrackedEmail struct {
	ID             string     `json:"id"`
	Token          string     `json:"token"`
	RecipientEmail string     `json:"recipient_email"`
	Description    string     `json:"description,omitempty"`
	OwnerUserID    string     `json:"owner_user_id,omitempty"`
	Seen           bool       `json:"seen"`
	SeenAt         *time.Time `json:"seen_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ValidRecipient performs basic shape validation on the recipient address.
// Deliverability is not this service's concern; this only rejects values
// that cannot be an email address at all.
func ValidRecipient(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	local, dom := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return false
	}
	if len(dom) == 0 || len(dom) > 253 || !strings.Contains(dom, ".") {
		return false
	}
	return true
}
