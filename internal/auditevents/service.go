package auditevents

import (
	"github.com/wso2/practice-management-api/internal/auditevents/model"
	"github.com/wso2/practice-management-api/internal/system/clock"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/log"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const loggerComponentName = "AuditEventService"

// Recorder records audit events on a best-effort basis. Record never
// fails the caller: consent operations must not be blocked by an audit
// trail outage, so failures are logged and swallowed.
type Recorder interface {
	Record(event model.AuditEvent)
}

// AuditEventServiceInterface exposes audit event recording and querying.
type AuditEventServiceInterface interface {
	Recorder
	ListEvents(filters model.AuditEventSearchFilters) (*model.AuditEventListResponse, *serviceerror.ServiceError)
}

type auditEventService struct {
	store AuditEventStore
	clock clock.Clock
}

// NewAuditEventService creates an audit event service.
func NewAuditEventService(store AuditEventStore, clk clock.Clock) AuditEventServiceInterface {
	return &auditEventService{store: store, clock: clk}
}

// Record persists an audit event, assigning an event ID and timestamp.
// Storage failures are logged but never propagated.
func (s *auditEventService) Record(event model.AuditEvent) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if event.EventID == "" {
		event.EventID = utils.GenerateUUID()
	}
	if event.EventTime == 0 {
		event.EventTime = clock.NowMillis(s.clock)
	}
	if event.Outcome == "" {
		event.Outcome = model.OutcomeSuccess
	}

	if err := s.store.Create(&event); err != nil {
		logger.Error("Failed to record audit event",
			log.String("action", event.Action),
			log.String("outcome", event.Outcome),
			log.Error(err),
		)
	}
}

// ListEvents returns audit events matching the filters, newest first.
func (s *auditEventService) ListEvents(filters model.AuditEventSearchFilters) (
	*model.AuditEventListResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	filters.Limit, filters.Offset = utils.NormalizePagination(filters.Limit, filters.Offset)

	events, total, err := s.store.List(filters)
	if err != nil {
		logger.Error("Failed to list audit events", log.Error(err))
		return nil, &serviceerror.DatabaseError
	}

	return &model.AuditEventListResponse{
		TotalResults: total,
		Count:        len(events),
		Limit:        filters.Limit,
		Offset:       filters.Offset,
		Events:       events,
	}, nil
}
