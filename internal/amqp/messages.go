package amqp

import (
	"encoding/json"
	"time"
)

// StatsRequestMessage asks the worker to compute a report. An empty CarID
// requests a fleet-wide report; Unit and BaseCurrency override the worker's
// configured defaults when set.
type StatsRequestMessage struct {
	RequestID    string    `json:"requestId"`
	CarID        string    `json:"carId,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	BaseCurrency string    `json:"baseCurrency,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// StatsResultMessage carries the computed report back. Report holds the
// JSON-encoded CarReport or FleetStats; Error is set instead when the
// computation failed.
type StatsResultMessage struct {
	RequestID string          `json:"requestId"`
	CarID     string          `json:"carId,omitempty"`
	Report    json.RawMessage `json:"report,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewStatsRequestMessage(requestID, carID string) *StatsRequestMessage {
	return &StatsRequestMessage{
		RequestID: requestID,
		CarID:     carID,
		Timestamp: time.Now(),
	}
}

func NewStatsResultMessage(requestID, carID string, report json.RawMessage) *StatsResultMessage {
	return &StatsResultMessage{
		RequestID: requestID,
		CarID:     carID,
		Report:    report,
		Timestamp: time.Now(),
	}
}

func NewStatsErrorMessage(requestID, carID, errMsg string) *StatsResultMessage {
	return &StatsResultMessage{
		RequestID: requestID,
		CarID:     carID,
		Error:     errMsg,
		Timestamp: time.Now(),
	}
}

func (m *StatsRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatsRequestMessageFromJSON(data []byte) (*StatsRequestMessage, error) {
	var msg StatsRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *StatsResultMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatsResultMessageFromJSON(data []byte) (*StatsResultMessage, error) {
	var msg StatsResultMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
