package signup

import (
	"context"
	"time"
)

// Sink receives a record that passed validation.
type Sink interface {
	Submit(ctx context.Context, in Input) (Receipt, error)
}

type Receipt struct {
	Submitted  Input     `json:"submitted"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// EchoSink hands the submitted values straight back for display.
// No account is created and nothing is stored.
type EchoSink struct {
	Now func() time.Time
}

func (s EchoSink) Submit(_ context.Context, in Input) (Receipt, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return Receipt{Submitted: in, ReceivedAt: now().UTC()}, nil
}
