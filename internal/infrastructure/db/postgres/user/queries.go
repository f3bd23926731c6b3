package user

const (
	SelectUserByID = `
		SELECT id, username, email, COALESCE(avatar, ''), is_admin, created_at
		FROM users
		WHERE id = $1
	`
)
