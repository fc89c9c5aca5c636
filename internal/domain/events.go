package domain

import "time"

// EventType represents the type of session event
type EventType string

const (
	EventSettingsUpdated EventType = "SETTINGS_UPDATED"
	EventListUpdated     EventType = "LIST_UPDATED"
	EventOriginUpdated   EventType = "ORIGIN_UPDATED"
	EventStatus          EventType = "STATUS"
	EventRoundStarted    EventType = "ROUND_STARTED"
	EventVoteCast        EventType = "VOTE_CAST"
	EventRoundCompleted  EventType = "ROUND_COMPLETED"
	EventRoundReset      EventType = "ROUND_RESET"
)

// SessionEvent represents a state change pushed to subscribers
type SessionEvent struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"sessionId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new session event
func NewEvent(eventType EventType, sessionID string, payload interface{}) *SessionEvent {
	return &SessionEvent{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// Settings are the raw setup form values, kept as typed so that
// half-finished input survives a reload
type Settings struct {
	ListText string `json:"listText"`
	Count    string `json:"count"`
	Radius   string `json:"radius"`
	Lat      string `json:"lat"`
	Lng      string `json:"lng"`
}

// CardView is the card currently shown during a round
type CardView struct {
	Candidate
	DistanceLabel string `json:"distanceLabel"`
	MapURL        string `json:"mapUrl,omitempty"`
	Position      int    `json:"position"`
	Total         int    `json:"total"`
}

// ResultsView is what the results screen shows
type ResultsView struct {
	Summary  string      `json:"summary"`
	Likes    []string    `json:"likes"`
	Liked    []Candidate `json:"liked"`
	LikesRaw string      `json:"likesJson"`
}

// SessionState is the full snapshot a subscriber renders from
type SessionState struct {
	Phase      Phase          `json:"phase"`
	Settings   Settings       `json:"settings"`
	Origin     Origin         `json:"origin"`
	RoundID    string         `json:"roundId,omitempty"`
	RangeInfo  string         `json:"rangeInfo,omitempty"`
	Card       *CardView      `json:"card,omitempty"`
	Results    *ResultsView   `json:"results,omitempty"`
	Status     *StatusPayload `json:"status,omitempty"`
	LookupBusy bool           `json:"lookupBusy"`
}

// StatusPayload carries a user-visible status line
type StatusPayload struct {
	Message string `json:"message"`
	IsError bool   `json:"isError"`
}
