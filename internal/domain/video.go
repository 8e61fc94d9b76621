package domain

import "time"

// Video is one generated ad in a user's library. Src is an addressable video
// resource: a self-contained data URI by default, or a storage URL when media
// persistence is enabled.
type Video struct {
	ID        string
	UserID    string
	Src       string
	Prompt    string
	CreatedAt time.Time
}
