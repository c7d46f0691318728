package models

import "time"

// AuditRecord is the raw hook request together with the outcome of processing it.
type AuditRecord struct {
	ReceivedAt time.Time `bson:"receivedAt" json:"receivedAt"`

	// Field is the form field the payload was read from ("commit" or "payload").
	Field    string `bson:"field" json:"field"`
	Revision string `bson:"revision,omitempty" json:"revision,omitempty"`

	Raw     string `bson:"raw" json:"raw"`
	Outcome string `bson:"outcome" json:"outcome"`
	Failed  bool   `bson:"failed" json:"failed"`
}
