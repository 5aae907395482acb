package models

import "time"

// Student is a learner profile. TotalXP is the running XP ledger that
// EndSession propagates into.
type Student struct {
	ID            string
	Email         string
	PasswordHash  string
	DisplayName   string
	Role          string
	TotalXP       int
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Roles a profile can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)
