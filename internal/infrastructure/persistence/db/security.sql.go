package db

import (
	"context"
)

const userGetByEmail = `-- name: UserGetByEmail :one
SELECT id_user, name, email, password_hash, failed_login_attempts, lockout_until
FROM security.sp_user_get_by_email($1)
`

func (q *Queries) UserGetByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, userGetByEmail, email)
	var i User
	err := row.Scan(
		&i.IDUser,
		&i.Name,
		&i.Email,
		&i.PasswordHash,
		&i.FailedLoginAttempts,
		&i.LockoutUntil,
	)
	return i, err
}

const userLoginAttempt = `-- name: UserLoginAttempt :exec
SELECT security.sp_user_login_attempt($1, $2, $3, $4)
`

type UserLoginAttemptParams struct {
	EmailAttempt string
	IPAddress    string
	UserAgent    string
	Success      bool
}

func (q *Queries) UserLoginAttempt(ctx context.Context, arg UserLoginAttemptParams) error {
	_, err := q.db.Exec(ctx, userLoginAttempt,
		arg.EmailAttempt,
		arg.IPAddress,
		arg.UserAgent,
		arg.Success,
	)
	return err
}

const userRecordFailure = `-- name: UserRecordFailure :exec
SELECT security.sp_user_record_failure($1, $2, $3)
`

type UserRecordFailureParams struct {
	IDUser         int64
	Threshold      int32
	LockoutSeconds int64
}

func (q *Queries) UserRecordFailure(ctx context.Context, arg UserRecordFailureParams) error {
	_, err := q.db.Exec(ctx, userRecordFailure, arg.IDUser, arg.Threshold, arg.LockoutSeconds)
	return err
}

const userResetFailures = `-- name: UserResetFailures :exec
SELECT security.sp_user_reset_failures($1)
`

func (q *Queries) UserResetFailures(ctx context.Context, idUser int64) error {
	_, err := q.db.Exec(ctx, userResetFailures, idUser)
	return err
}
