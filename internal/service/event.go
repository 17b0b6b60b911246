package service

import (
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/benefitsync/reconciler/internal/events"
)

// emitEvent publishes one lifecycle event. Event delivery is best effort:
// a failed write is logged and never fails the operation that produced it.
func emitEvent(ctx context.Context, ep *events.EventProducer, kind string, payload any) {
	if ep == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		zap.S().Named("events").Errorw("failed to encode event", "error", err, "event_kind", kind)
		return
	}
	if err := ep.Write(ctx, kind, bytes.NewBuffer(data)); err != nil {
		zap.S().Named("events").Errorw("failed to write event", "error", err, "event_kind", kind)
	}
}
