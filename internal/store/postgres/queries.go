package postgres

// Inline SQL kept next to the store so the schema surface is reviewable in
// one place.
const (
	qInsertUser = `
INSERT INTO users (id, email, password_hash, google_sub, created_at)
VALUES ($1, lower($2), $3, NULLIF($4, ''), $5)`

	qSelectUserByEmail = `
SELECT id, email, COALESCE(password_hash, ''), COALESCE(google_sub, ''), created_at
FROM users
WHERE email = lower($1)`

	qSelectUserByID = `
SELECT id, email, COALESCE(password_hash, ''), COALESCE(google_sub, ''), created_at
FROM users
WHERE id = $1`

	qUpsertGoogleUser = `
INSERT INTO users (id, email, password_hash, google_sub, created_at)
VALUES ($1, lower($2), NULL, $3, $4)
ON CONFLICT (email) DO UPDATE SET google_sub = EXCLUDED.google_sub
RETURNING id, email, COALESCE(password_hash, ''), COALESCE(google_sub, ''), created_at`

	qInsertVideo = `
INSERT INTO videos (id, user_id, src, prompt, created_at)
VALUES ($1, $2, $3, $4, $5)`

	qSelectVideosByUser = `
SELECT id, user_id, src, prompt, created_at
FROM videos
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
)
