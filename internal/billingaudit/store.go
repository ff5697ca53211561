package billingaudit

import (
	"encoding/json"
	"fmt"

	"github.com/wso2/practice-management-api/internal/billingaudit/model"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/database/provider"
	dbutils "github.com/wso2/practice-management-api/internal/system/database/utils"
)

var (
	queryAppendBillingAudit = dbmodel.DBQuery{
		ID: "BAQ-00001",
		Query: "INSERT INTO BILLING_AUDIT_LOG (ENTRY_ID, OFFICE_ID, EVENT_TYPE, EVENT_TIME, " +
			"USER_ID, SOURCE, OUTCOME, DETAILS) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	}

	queryListBillingAuditBase = "SELECT ENTRY_ID, OFFICE_ID, EVENT_TYPE, EVENT_TIME, USER_ID, " +
		"SOURCE, OUTCOME, DETAILS FROM BILLING_AUDIT_LOG"

	queryCountBillingAuditBase = "SELECT COUNT(*) AS TOTAL FROM BILLING_AUDIT_LOG"
)

// BillingAuditStore defines persistence operations for the billing audit log.
// Writes are transaction-scoped: every append rides in the transaction of the
// office mutation it records, so a failed audit write rolls the mutation back.
type BillingAuditStore interface {
	Append(tx dbmodel.TxInterface, dbType string, entry *model.BillingAuditEntry) error
	ListByOffice(officeID int64, filters model.BillingAuditSearchFilters) ([]model.BillingAuditEntry, int, error)
}

type billingAuditStore struct {
	dbClient provider.DBClientInterface
}

// NewBillingAuditStore creates a billing audit store backed by the given client.
func NewBillingAuditStore(dbClient provider.DBClientInterface) BillingAuditStore {
	return &billingAuditStore{dbClient: dbClient}
}

// Append inserts one audit entry inside the caller's transaction.
func (s *billingAuditStore) Append(tx dbmodel.TxInterface, dbType string, entry *model.BillingAuditEntry) error {
	var details interface{}
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to serialize audit details: %w", err)
		}
		details = string(raw)
	}

	_, err := tx.Exec(queryAppendBillingAudit.GetQuery(dbType),
		entry.EntryID, entry.OfficeID, entry.EventType, entry.EventTime,
		entry.UserID, entry.Source, entry.Outcome, details)
	if err != nil {
		return fmt.Errorf("failed to append billing audit entry: %w", err)
	}
	return nil
}

// ListByOffice returns the office's audit entries matching the filters,
// newest first, along with the total match count before pagination.
func (s *billingAuditStore) ListByOffice(officeID int64, filters model.BillingAuditSearchFilters) (
	[]model.BillingAuditEntry, int, error) {
	conditions := []string{"OFFICE_ID = ?"}
	args := []interface{}{officeID}

	if filters.EventType != "" {
		conditions = append(conditions, "EVENT_TYPE = ?")
		args = append(args, filters.EventType)
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

	countQuery := dbmodel.DBQuery{ID: "BAQ-00002", Query: queryCountBillingAuditBase + where}
	countRows, err := s.dbClient.Query(&countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count billing audit entries: %w", err)
	}
	total := 0
	if len(countRows) > 0 {
		total, err = dbutils.RowInt(countRows[0], "TOTAL")
		if err != nil {
			return nil, 0, err
		}
	}

	listSQL := dbutils.BuildPaginationQuery(
		dbutils.BuildOrderByQuery(queryListBillingAuditBase+where, "EVENT_TIME", false),
		filters.Limit, filters.Offset)
	listQuery := dbmodel.DBQuery{ID: "BAQ-00003", Query: listSQL}

	rows, err := s.dbClient.Query(&listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list billing audit entries: %w", err)
	}

	entries := make([]model.BillingAuditEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := buildBillingAuditFromRow(row)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *entry)
	}
	return entries, total, nil
}

func buildBillingAuditFromRow(row map[string]interface{}) (*model.BillingAuditEntry, error) {
	entryID, err := dbutils.RowString(row, "ENTRY_ID")
	if err != nil {
		return nil, err
	}
	officeID, err := dbutils.RowInt64(row, "OFFICE_ID")
	if err != nil {
		return nil, err
	}
	eventType, err := dbutils.RowString(row, "EVENT_TYPE")
	if err != nil {
		return nil, err
	}
	eventTime, err := dbutils.RowInt64(row, "EVENT_TIME")
	if err != nil {
		return nil, err
	}
	source, err := dbutils.RowString(row, "SOURCE")
	if err != nil {
		return nil, err
	}
	outcome, err := dbutils.RowString(row, "OUTCOME")
	if err != nil {
		return nil, err
	}

	entry := &model.BillingAuditEntry{
		EntryID:   entryID,
		OfficeID:  officeID,
		EventType: eventType,
		EventTime: eventTime,
		UserID:    dbutils.RowNullableInt64(row, "USER_ID"),
		Source:    source,
		Outcome:   outcome,
	}

	if raw := dbutils.RowNullableString(row, "DETAILS"); raw != nil && *raw != "" {
		details := make(map[string]interface{})
		if err := json.Unmarshal([]byte(*raw), &details); err != nil {
			return nil, fmt.Errorf("failed to parse details for audit entry %s: %w", entryID, err)
		}
		entry.Details = details
	}
	return entry, nil
}
