package settings

const (
	SelectSettings = `
		SELECT theme, navbar_title, COALESCE(logo_path, ''), COALESCE(background_path, ''),
		       max_upload_size, blur_intensity, max_validity, allow_registration, expiration_action
		FROM settings
		WHERE id = 1
	`
	UpsertSettings = `
		INSERT INTO settings (id, theme, navbar_title, logo_path, background_path,
		                      max_upload_size, blur_intensity, max_validity, allow_registration, expiration_action)
		VALUES (1, $1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET theme = EXCLUDED.theme,
		    navbar_title = EXCLUDED.navbar_title,
		    logo_path = EXCLUDED.logo_path,
		    background_path = EXCLUDED.background_path,
		    max_upload_size = EXCLUDED.max_upload_size,
		    blur_intensity = EXCLUDED.blur_intensity,
		    max_validity = EXCLUDED.max_validity,
		    allow_registration = EXCLUDED.allow_registration,
		    expiration_action = EXCLUDED.expiration_action
	`
)
