package domain

import "time"

type User struct {
	TelegramID int64
	Balance    int64 // cents
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Actor is a caller identity with authorization already resolved by the
// chat layer. Admin operations receive it explicitly instead of consulting
// ambient admin lists.
type Actor struct {
	TelegramID int64
	Admin      bool
}
