package models

import (
	"slices"
	"time"
)

// Session is a scheduled yoga class. Users holds the ids of participating
// accounts and is loaded separately from the join table.
type Session struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Date        time.Time `db:"date" json:"date"`
	TeacherID   int64     `db:"teacher_id" json:"teacher_id"`
	Description string    `db:"description" json:"description"`
	Users       []int64   `db:"-" json:"users"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// IsParticipant reports whether userID takes part in the session.
func (s *Session) IsParticipant(userID int64) bool {
	return slices.Contains(s.Users, userID)
}
