package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	IDUser              int64
	Name                string
	Email               string
	PasswordHash        string
	FailedLoginAttempts int32
	LockoutUntil        pgtype.Timestamptz
}

type UserLoginAttempt struct {
	IDUserLoginAttempt int64
	EmailAttempt       string
	IPAddress          string
	UserAgent          string
	Success            bool
	AttemptedAt        time.Time
}
