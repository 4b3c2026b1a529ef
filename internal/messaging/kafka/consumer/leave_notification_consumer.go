package consumer

import (
	"context"
	"encoding/json"

	"leavedesk/internal/bootstrap"
	"leavedesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle turns leave lifecycle events into notification audit
// entries. Actual delivery (email, push) is a separate concern; this consumer
// is where it would hook in.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		eventType := headerValue(msg, "event_type")
		switch eventType {
		case events.LeaveReviewedEventType:
			var event events.LeaveReviewedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error("decode leave_reviewed event failed", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			auditLogger.Log(ctx, bootstrap.AuditLog{
				Action:  "LEAVE_REVIEWED",
				Message: "Leave request " + event.Status,
				Meta: map[string]any{
					"leave_id":    event.LeaveID,
					"employee_id": event.EmployeeID,
					"leave_type":  event.LeaveType,
					"status":      event.Status,
					"reviewed_by": event.ReviewedBy,
					"days":        event.Days,
				},
			})
		case events.LeaveRequestedEventType:
			var event events.LeaveRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error("decode leave_requested event failed", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			auditLogger.Log(ctx, bootstrap.AuditLog{
				Action:  "LEAVE_REQUESTED",
				Message: "New leave request awaiting review",
				Meta: map[string]any{
					"leave_id":    event.LeaveID,
					"employee_id": event.EmployeeID,
					"leave_type":  event.LeaveType,
					"start_date":  event.StartDate,
					"end_date":    event.EndDate,
					"days":        event.Days,
				},
			})
		default:
			log.Warn("unknown leave lifecycle event type", zap.String("event_type", eventType))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
		}
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
