package domain

import "context"

// SessionizeFetcher fetches an event schedule from Sessionize (or a test double).
type SessionizeFetcher interface {
	Fetch(ctx context.Context, sessionizeID string) (SessionizeSchedule, error)
}

// SessionizeSchedule is the subset of the Sessionize "All" API response used to import talks.
type SessionizeSchedule struct {
	Sessions []SessionizeSession `json:"sessions"`
	Rooms    []SessionizeRoom    `json:"rooms"`
}

// SessionizeSession is a session in the Sessionize "All" response. StartsAt is a local timestamp
// without zone, e.g. "2025-05-10T09:30:00".
type SessionizeSession struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	StartsAt         string `json:"startsAt"`
	RoomID           int    `json:"roomId"`
	IsServiceSession bool   `json:"isServiceSession"`
}

// SessionizeRoom is a room in the Sessionize "All" response.
type SessionizeRoom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
