package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"saldo/internal/export"
)

// ExportMessageType is set as the AMQP message type of export publications.
const ExportMessageType = "ledger.export"

// ExportMessage wraps a ledger export snapshot for the broker.
type ExportMessage struct {
	MessageID string          `json:"messageId"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Snapshot  export.Snapshot `json:"snapshot"`
}

func NewExportMessage(s export.Snapshot) *ExportMessage {
	return &ExportMessage{
		MessageID: uuid.NewString(),
		Type:      ExportMessageType,
		Timestamp: time.Now(),
		Snapshot:  s,
	}
}

func (m *ExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportMessageFromJSON(data []byte) (*ExportMessage, error) {
	var msg ExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
