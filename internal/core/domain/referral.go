package domain

import "time"

// Referral факт приглашения пользователя
type Referral struct {
	ReferrerID   int64
	InvitedID    int64
	InvitedName  string
	InvitedPhoto string
	CreatedAt    time.Time
}
