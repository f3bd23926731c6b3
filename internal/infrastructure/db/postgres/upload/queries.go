package upload

const (
	SelectGate = `
		SELECT user_id, is_available, is_deleted, COALESCE(deletion_reason, ''), deleted_at
		FROM uploads
		WHERE upload_id = $1
	`
	SelectExpired = `
		SELECT upload_id, files
		FROM uploads
		WHERE expires_at IS NOT NULL AND expires_at <= $1 AND is_deleted = FALSE
		ORDER BY expires_at, upload_id
	`
	MarkDeletedByID = `
		UPDATE uploads
		SET is_deleted = TRUE,
		    deleted_at = $2,
		    deletion_reason = $3
		WHERE upload_id = $1 AND is_deleted = FALSE
	`
	MarkUnavailableByID = `
		UPDATE uploads
		SET is_available = FALSE
		WHERE upload_id = $1 AND is_available = TRUE AND is_deleted = FALSE
	`
	SelectUploader = `
		SELECT u.username, COALESCE(u.avatar, ''), COALESCE(up.email, ''), up.expires_at
		FROM uploads up
		JOIN users u ON up.user_id = u.id
		WHERE up.upload_id = $1
	`
)
