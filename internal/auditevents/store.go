package auditevents

import (
	"encoding/json"
	"fmt"

	"github.com/wso2/practice-management-api/internal/auditevents/model"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/database/provider"
	dbutils "github.com/wso2/practice-management-api/internal/system/database/utils"
)

var (
	queryCreateAuditEvent = dbmodel.DBQuery{
		ID: "AEQ-00001",
		Query: "INSERT INTO AUDIT_EVENT (EVENT_ID, EVENT_TIME, ACTION, OUTCOME, USER_ID, PATIENT_ID, " +
			"CONSENT_ID, CONSENT_TYPE, DETAILS) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	queryListAuditEventsBase = "SELECT EVENT_ID, EVENT_TIME, ACTION, OUTCOME, USER_ID, PATIENT_ID, " +
		"CONSENT_ID, CONSENT_TYPE, DETAILS FROM AUDIT_EVENT"

	queryCountAuditEventsBase = "SELECT COUNT(*) AS TOTAL FROM AUDIT_EVENT"
)

// AuditEventStore defines persistence operations for audit events.
type AuditEventStore interface {
	Create(event *model.AuditEvent) error
	List(filters model.AuditEventSearchFilters) ([]model.AuditEvent, int, error)
}

type auditEventStore struct {
	dbClient provider.DBClientInterface
}

// NewAuditEventStore creates an audit event store backed by the given client.
func NewAuditEventStore(dbClient provider.DBClientInterface) AuditEventStore {
	return &auditEventStore{dbClient: dbClient}
}

// Create appends a single audit event. There is no update or delete path;
// the table is append-only.
func (s *auditEventStore) Create(event *model.AuditEvent) error {
	var details interface{}
	if len(event.Details) > 0 {
		raw, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("failed to serialize event details: %w", err)
		}
		details = string(raw)
	}

	_, err := s.dbClient.Execute(&queryCreateAuditEvent,
		event.EventID, event.EventTime, event.Action, event.Outcome,
		event.UserID, event.PatientID, event.ConsentID, event.ConsentType, details)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// List returns audit events matching the filters, newest first, along with
// the total match count before pagination.
func (s *auditEventStore) List(filters model.AuditEventSearchFilters) ([]model.AuditEvent, int, error) {
	var conditions []string
	var args []interface{}

	if filters.PatientID != nil {
		conditions = append(conditions, "PATIENT_ID = ?")
		args = append(args, *filters.PatientID)
	}
	if filters.UserID != nil {
		conditions = append(conditions, "USER_ID = ?")
		args = append(args, *filters.UserID)
	}
	if filters.Action != "" {
		conditions = append(conditions, "ACTION = ?")
		args = append(args, filters.Action)
	}
	if filters.Outcome != "" {
		conditions = append(conditions, "OUTCOME = ?")
		args = append(args, filters.Outcome)
	}
	if filters.After != nil {
		conditions = append(conditions, "EVENT_TIME >= ?")
		args = append(args, *filters.After)
	}
	if filters.Before != nil {
		conditions = append(conditions, "EVENT_TIME <= ?")
		args = append(args, *filters.Before)
	}

	where := dbutils.BuildWhereClause(conditions)

	countQuery := dbmodel.DBQuery{ID: "AEQ-00002", Query: queryCountAuditEventsBase + where}
	countRows, err := s.dbClient.Query(&countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	total := 0
	if len(countRows) > 0 {
		total, err = dbutils.RowInt(countRows[0], "TOTAL")
		if err != nil {
			return nil, 0, err
		}
	}

	listSQL := dbutils.BuildPaginationQuery(
		dbutils.BuildOrderByQuery(queryListAuditEventsBase+where, "EVENT_TIME", false),
		filters.Limit, filters.Offset)
	listQuery := dbmodel.DBQuery{ID: "AEQ-00003", Query: listSQL}

	rows, err := s.dbClient.Query(&listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit events: %w", err)
	}

	events := make([]model.AuditEvent, 0, len(rows))
	for _, row := range rows {
		event, err := buildAuditEventFromRow(row)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, *event)
	}
	return events, total, nil
}

func buildAuditEventFromRow(row map[string]interface{}) (*model.AuditEvent, error) {
	eventID, err := dbutils.RowString(row, "EVENT_ID")
	if err != nil {
		return nil, err
	}
	eventTime, err := dbutils.RowInt64(row, "EVENT_TIME")
	if err != nil {
		return nil, err
	}
	action, err := dbutils.RowString(row, "ACTION")
	if err != nil {
		return nil, err
	}
	outcome, err := dbutils.RowString(row, "OUTCOME")
	if err != nil {
		return nil, err
	}

	event := &model.AuditEvent{
		EventID:     eventID,
		EventTime:   eventTime,
		Action:      action,
		Outcome:     outcome,
		UserID:      dbutils.RowNullableInt64(row, "USER_ID"),
		PatientID:   dbutils.RowNullableInt64(row, "PATIENT_ID"),
		ConsentID:   dbutils.RowNullableString(row, "CONSENT_ID"),
		ConsentType: dbutils.RowNullableString(row, "CONSENT_TYPE"),
	}

	if raw := dbutils.RowNullableString(row, "DETAILS"); raw != nil && *raw != "" {
		details := make(map[string]interface{})
		if err := json.Unmarshal([]byte(*raw), &details); err != nil {
			return nil, fmt.Errorf("failed to parse details for event %s: %w", eventID, err)
		}
		event.Details = details
	}
	return event, nil
}
