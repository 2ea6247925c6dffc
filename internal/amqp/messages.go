package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that a collection changed on some instance.
// It carries no document data, consumers re-read the collection from
// their own store.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Origin     string    `json:"origin"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change announcement for a collection.
func NewChangeMessage(collection, origin string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		Origin:     origin,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ExpenseExportMessage is a lightweight message for exporting an expense
// to Google Sheets. It contains only the document id, the worker fetches
// the full expense from the store.
type ExpenseExportMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseExportMessage creates a new export message with just the id.
func NewExpenseExportMessage(id string) *ExpenseExportMessage {
	return &ExpenseExportMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseExportMessageFromJSON creates a message from JSON bytes
func ExpenseExportMessageFromJSON(data []byte) (*ExpenseExportMessage, error) {
	var msg ExpenseExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
