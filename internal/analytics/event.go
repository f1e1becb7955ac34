package analytics

import "time"

// Topics carrying link lifecycle events.
const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when a short link is created.
type LinkCreatedEvent struct {
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	Owner     string    `json:"owner"`
	Category  string    `json:"category,omitempty"`
	Alias     bool      `json:"alias"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// VisitEvent is emitted after every successful resolution. Publication is
// fire-and-forget: a lost event never affects the redirect.
type VisitEvent struct {
	Code      string    `json:"code"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
}
