package events

import (
	"context"
	"mantisbeanstalk/internal/models"
	"time"
)

const (
	ActorHyperUser = "hyperuser"
	ActorSystem    = "system"
	ActorAuthor    = "author"
)

const (
	TargetHyperUser = "hyperuser"
	TargetIssue     = "issue"
	TargetHook      = "hook"
)

// Emit queues evt, writing it directly when the buffer is full.
func (e *Emitter) Emit(evt models.Event) {
	if e == nil {
		return
	}

	evt.TimeStamp = time.Now().UTC()

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		_ = e.insertOne(ctx, evt)
	}
}
