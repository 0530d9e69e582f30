package amqp

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/drepessoal/internal/reminder"
)

// ReminderMessage is the payload consumers of the reminder queue receive.
type ReminderMessage struct {
	Reminder  reminder.Reminder `json:"reminder"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewReminderMessage(r reminder.Reminder) *ReminderMessage {
	return &ReminderMessage{
		Reminder:  r,
		Timestamp: time.Now(),
	}
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}
