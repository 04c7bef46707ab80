package models

import (
	"encoding/json"
	"time"
)

// ConsultAction is the fixed action tag sent when the consult button is clicked
const ConsultAction = "click_consult_button"

// Event kinds recorded by the tracking sinks
const (
	EventReportGenerated  = "report_generated"
	EventConsultRequested = "consult_requested"
)

// Timestamp serializes as an ISO-8601 UTC string with millisecond precision
type Timestamp time.Time

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format("2006-01-02T15:04:05.000Z"))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the wrapped time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// ReportEvent is sent when a caregiver generates the report
type ReportEvent struct {
	Nickname     string      `json:"nickname"`
	Pressure     int         `json:"pressure"`
	Disease      string      `json:"disease"`
	Residence    string      `json:"residence"`
	Relationship string      `json:"relationship"`
	Duration     string      `json:"duration"`
	Scores       map[int]int `json:"scores"`
	CurrentMood  string      `json:"currentMood"`
	FutureMood   string      `json:"futureMood"`
	Timestamp    Timestamp   `json:"timestamp"`
}

// ConsultEvent is sent when the consultation overlay is opened
type ConsultEvent struct {
	Nickname  string    `json:"nickname"`
	Action    string    `json:"action"`
	Timestamp Timestamp `json:"timestamp"`
}

// TrackingEvent is a stored copy of a notification
type TrackingEvent struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Nickname  string          `json:"nickname"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
