package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEntrySaved    = "entry.saved"
	EventTypeEntryReplaced = "entry.replaced"
)

type EntryRecordedEvent struct {
	BaseEvent
	EntryID      int64  `json:"entry_id"`
	Period       string `json:"period"`
	TotalIncome  int64  `json:"total_income"`
	TotalExpense int64  `json:"total_expense"`
}

func newEntryRecordedEvent(eventType string, entryID int64, period string, totalIncome, totalExpense int64) *EntryRecordedEvent {
	return &EntryRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":      entryID,
				"period":        period,
				"total_income":  totalIncome,
				"total_expense": totalExpense,
			},
		},
		EntryID:      entryID,
		Period:       period,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
	}
}

func NewEntrySavedEvent(entryID int64, period string, totalIncome, totalExpense int64) *EntryRecordedEvent {
	return newEntryRecordedEvent(EventTypeEntrySaved, entryID, period, totalIncome, totalExpense)
}

func NewEntryReplacedEvent(entryID int64, period string, totalIncome, totalExpense int64) *EntryRecordedEvent {
	return newEntryRecordedEvent(EventTypeEntryReplaced, entryID, period, totalIncome, totalExpense)
}

// AuditLogHandler writes one log line per recorded entry.
func AuditLogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		e, ok := event.(*EntryRecordedEvent)
		if !ok {
			logger.InfoContext(ctx, "event received", "event_type", event.EventType(), "event_id", event.EventID())
			return nil
		}
		logger.InfoContext(ctx, "entry recorded",
			"event_type", e.EventType(),
			"event_id", e.EventID(),
			"entry_id", e.EntryID,
			"period", e.Period,
			"total_income", e.TotalIncome,
			"total_expense", e.TotalExpense,
			"remaining", e.TotalIncome-e.TotalExpense)
		return nil
	}
}

// RegisterEntryAudit subscribes the audit log handler to every entry event.
func RegisterEntryAudit(bus *EventBus, logger *slog.Logger) {
	h := AuditLogHandler(logger)
	bus.Subscribe(EventTypeEntrySaved, h)
	bus.Subscribe(EventTypeEntryReplaced, h)
}
