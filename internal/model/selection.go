package model

import "time"

// Selection is a learner's tentative pick of a class, stored in the
// `selections` table. A learner may hold at most one selection per
// class (UNIQUE(email, class_id)). Selections are removed either
// explicitly by the learner or when a settlement consumes them.
type Selection struct {
	ID        uint64    `json:"id"`         // selections.id
	Email     string    `json:"email"`      // selections.email
	ClassID   uint64    `json:"class_id"`   // selections.class_id
	ClassName string    `json:"class_name"` // selections.class_name
	Image     string    `json:"image"`      // selections.image
	Price     float64   `json:"price"`      // selections.price
	CreatedAt time.Time `json:"created_at"` // selections.created_at
}
