// Package audit persists every hook request together with its outcome.
package audit

import (
	"context"
	"errors"

	"mantisbeanstalk/internal/models"
)

// Sink stores audit records. Record is called once per request, after
// processing; a failure never undoes tracker changes already made.
type Sink interface {
	Record(ctx context.Context, rec models.AuditRecord) error
}

// Multi writes to every sink and joins their errors.
type Multi []Sink

func (m Multi) Record(ctx context.Context, rec models.AuditRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
