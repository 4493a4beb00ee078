package dto

// TrackEventRequest is the body of the event beacon. FunnelStep, when set,
// additionally marks the session reaching that journey stage.
type TrackEventRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	EventType  string `json:"event_type" validate:"required"`
	ElementID  string `json:"element_id,omitempty"`
	Value      string `json:"value,omitempty"`
	PageURL    string `json:"page_url,omitempty"`
	FunnelStep string `json:"funnel_step,omitempty"`
}

// TrackSessionRequest is the body of the session beacon, sent on page load
// and unload. The first beacon for a session id creates the row; later ones
// advance it.
type TrackSessionRequest struct {
	SessionID        string `json:"session_id,omitempty"`
	TotalPages       int64  `json:"total_pages,omitempty"`
	DurationSeconds  int64  `json:"duration_seconds,omitempty"`
	DeviceType       string `json:"device_type,omitempty"`
	Browser          string `json:"browser,omitempty"`
	OS               string `json:"os,omitempty"`
	ScreenResolution string `json:"screen_resolution,omitempty"`
	Referrer         string `json:"referrer,omitempty"`
	LandingPage      string `json:"landing_page,omitempty"`
	Active           bool   `json:"active,omitempty"`
}

type TrackResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
}
