package consent

import (
	"encoding/json"
	"fmt"

	"github.com/wso2/practice-management-api/internal/consent/model"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/database/provider"
	dbutils "github.com/wso2/practice-management-api/internal/system/database/utils"
)

const consentColumns = "CONSENT_ID, PATIENT_ID, CONSENT_TYPE, CONSENT_VERSION, CONSENT_TEXT, " +
	"PURPOSE, SCOPE, CURRENT_STATUS, GRANTED_TIME, GRANTED_BY, REVOKED_TIME, REVOKED_BY, " +
	"EXPIRY_TIME, THIRD_PARTY_SHARING, THIRD_PARTY_ENTITIES"

var (
	queryInsertConsent = dbmodel.DBQuery{
		ID: "CSQ-00001",
		Query: "INSERT INTO PRACTICE_CONSENT (" + consentColumns + ") " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	queryGetConsentByID = dbmodel.DBQuery{
		ID:    "CSQ-00002",
		Query: "SELECT " + consentColumns + " FROM PRACTICE_CONSENT WHERE CONSENT_ID = ?",
	}

	// Status-guarded transition statements. The CURRENT_STATUS='granted'
	// predicate is the concurrency control: of two racing terminal
	// transitions only one can match the row, so REVOKED_BY is stamped
	// exactly once and the loser observes zero rows affected.
	queryMarkConsentRevoked = dbmodel.DBQuery{
		ID: "CSQ-00003",
		Query: "UPDATE PRACTICE_CONSENT SET CURRENT_STATUS = '" + model.StatusRevoked + "', " +
			"REVOKED_TIME = ?, REVOKED_BY = ? WHERE CONSENT_ID = ? AND CURRENT_STATUS = '" +
			model.StatusGranted + "'",
	}

	queryMarkConsentExpired = dbmodel.DBQuery{
		ID: "CSQ-00004",
		Query: "UPDATE PRACTICE_CONSENT SET CURRENT_STATUS = '" + model.StatusExpired + "' " +
			"WHERE CONSENT_ID = ? AND CURRENT_STATUS = '" + model.StatusGranted + "'",
	}

	queryListGrantedByPatientAndType = dbmodel.DBQuery{
		ID: "CSQ-00005",
		Query: "SELECT " + consentColumns + " FROM PRACTICE_CONSENT WHERE PATIENT_ID = ? AND " +
			"CONSENT_TYPE = ? AND CURRENT_STATUS = '" + model.StatusGranted + "' " +
			"ORDER BY GRANTED_TIME DESC",
	}

	queryListDueForExpiry = dbmodel.DBQuery{
		ID: "CSQ-00006",
		Query: "SELECT CONSENT_ID FROM PRACTICE_CONSENT WHERE CURRENT_STATUS = '" +
			model.StatusGranted + "' AND EXPIRY_TIME IS NOT NULL AND EXPIRY_TIME <= ?",
	}

	queryListExpiring = dbmodel.DBQuery{
		ID: "CSQ-00007",
		Query: "SELECT " + consentColumns + " FROM PRACTICE_CONSENT WHERE CURRENT_STATUS = '" +
			model.StatusGranted + "' AND EXPIRY_TIME IS NOT NULL AND EXPIRY_TIME >= ? AND " +
			"EXPIRY_TIME <= ? ORDER BY EXPIRY_TIME ASC",
	}

	queryListExpiringForOffice = dbmodel.DBQuery{
		ID: "CSQ-00008",
		Query: "SELECT C.CONSENT_ID, C.PATIENT_ID, C.CONSENT_TYPE, C.CONSENT_VERSION, " +
			"C.CONSENT_TEXT, C.PURPOSE, C.SCOPE, C.CURRENT_STATUS, C.GRANTED_TIME, C.GRANTED_BY, " +
			"C.REVOKED_TIME, C.REVOKED_BY, C.EXPIRY_TIME, C.THIRD_PARTY_SHARING, " +
			"C.THIRD_PARTY_ENTITIES FROM PRACTICE_CONSENT C " +
			"JOIN OFFICE_STAFF S ON S.USER_ID = C.GRANTED_BY " +
			"WHERE S.OFFICE_ID = ? AND C.CURRENT_STATUS = '" + model.StatusGranted + "' AND " +
			"C.EXPIRY_TIME IS NOT NULL AND C.EXPIRY_TIME >= ? AND C.EXPIRY_TIME <= ? " +
			"ORDER BY C.EXPIRY_TIME ASC",
	}

	queryDeleteConsent = dbmodel.DBQuery{
		ID:    "CSQ-00009",
		Query: "DELETE FROM PRACTICE_CONSENT WHERE CONSENT_ID = ?",
	}
)

// ConsentStore defines persistence operations for consent records.
// Mutations are transaction-scoped; reads go through the client directly.
type ConsentStore interface {
	Create(tx dbmodel.TxInterface, dbType string, record *model.ConsentRecord) error
	GetByID(consentID string) (*model.ConsentRecord, error)
	Search(filters model.ConsentSearchFilters, nowMillis int64) ([]model.ConsentRecord, int, error)
	ListGrantedByPatientAndType(patientID int64, consentType string) ([]model.ConsentRecord, error)
	ListExpiring(from, to int64, officeID *int64) ([]model.ConsentRecord, error)
	ListDueForExpiry(nowMillis int64) ([]string, error)
	MarkRevoked(tx dbmodel.TxInterface, dbType, consentID string, revokedBy, nowMillis int64) (int64, error)
	MarkExpired(tx dbmodel.TxInterface, dbType, consentID string) (int64, error)
	Delete(tx dbmodel.TxInterface, dbType, consentID string) (int64, error)
}

type consentStore struct {
	dbClient provider.DBClientInterface
}

// NewConsentStore creates a consent store backed by the given client.
func NewConsentStore(dbClient provider.DBClientInterface) ConsentStore {
	return &consentStore{dbClient: dbClient}
}

// Create inserts a consent record inside the caller's transaction.
func (s *consentStore) Create(tx dbmodel.TxInterface, dbType string, record *model.ConsentRecord) error {
	entities, err := marshalEntities(record.ThirdPartyEntities)
	if err != nil {
		return err
	}

	_, err = tx.Exec(queryInsertConsent.GetQuery(dbType),
		record.ConsentID, record.PatientID, record.ConsentType, record.ConsentVersion,
		record.ConsentText, record.Purpose, record.Scope, record.CurrentStatus,
		record.GrantedTime, record.GrantedBy, record.RevokedTime, record.RevokedBy,
		record.ExpiryTime, record.ThirdPartySharing, entities)
	if err != nil {
		return fmt.Errorf("failed to insert consent record: %w", err)
	}
	return nil
}

// GetByID returns the consent record, or nil when no such record exists.
func (s *consentStore) GetByID(consentID string) (*model.ConsentRecord, error) {
	rows, err := s.dbClient.Query(&queryGetConsentByID, consentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consent %s: %w", consentID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return buildConsentFromRow(rows[0])
}

// Search returns consent records matching the filters ordered by granted
// time descending, along with the total match count before pagination.
// The activeOnly filter is evaluated in SQL against the instant supplied
// by the caller, not against the stored status alone.
func (s *consentStore) Search(filters model.ConsentSearchFilters, nowMillis int64) (
	[]model.ConsentRecord, int, error) {
	var conditions []string
	var args []interface{}

	if filters.PatientID != nil {
		conditions = append(conditions, "PATIENT_ID = ?")
		args = append(args, *filters.PatientID)
	}
	if filters.ConsentType != "" {
		conditions = append(conditions, "CONSENT_TYPE = ?")
		args = append(args, filters.ConsentType)
	}
	if filters.Status != "" {
		conditions = append(conditions, "CURRENT_STATUS = ?")
		args = append(args, filters.Status)
	}
	if filters.GrantedAfter != nil {
		conditions = append(conditions, "GRANTED_TIME >= ?")
		args = append(args, *filters.GrantedAfter)
	}
	if filters.GrantedBefore != nil {
		conditions = append(conditions, "GRANTED_TIME <= ?")
		args = append(args, *filters.GrantedBefore)
	}
	if filters.ExpiresAfter != nil {
		conditions = append(conditions, "EXPIRY_TIME IS NOT NULL AND EXPIRY_TIME >= ?")
		args = append(args, *filters.ExpiresAfter)
	}
	if filters.ExpiresBefore != nil {
		conditions = append(conditions, "EXPIRY_TIME IS NOT NULL AND EXPIRY_TIME <= ?")
		args = append(args, *filters.ExpiresBefore)
	}
	if filters.ThirdPartySharing != nil {
		conditions = append(conditions, "THIRD_PARTY_SHARING = ?")
		args = append(args, *filters.ThirdPartySharing)
	}
	if filters.ActiveOnly {
		conditions = append(conditions,
			"CURRENT_STATUS = '"+model.StatusGranted+"' AND (EXPIRY_TIME IS NULL OR EXPIRY_TIME > ?)")
		args = append(args, nowMillis)
	}

	where := dbutils.BuildWhereClause(conditions)

	countQuery := dbmodel.DBQuery{
		ID:    "CSQ-00010",
		Query: "SELECT COUNT(*) AS TOTAL FROM PRACTICE_CONSENT" + where,
	}
	countRows, err := s.dbClient.Query(&countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count consent records: %w", err)
	}
	total := 0
	if len(countRows) > 0 {
		total, err = dbutils.RowInt(countRows[0], "TOTAL")
		if err != nil {
			return nil, 0, err
		}
	}

	listSQL := dbutils.BuildPaginationQuery(
		dbutils.BuildOrderByQuery(
			"SELECT "+consentColumns+" FROM PRACTICE_CONSENT"+where, "GRANTED_TIME", false),
		filters.Limit, filters.Offset)
	listQuery := dbmodel.DBQuery{ID: "CSQ-00011", Query: listSQL}

	rows, err := s.dbClient.Query(&listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search consent records: %w", err)
	}
	records, err := buildConsentList(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListGrantedByPatientAndType returns the patient's granted consents of
// one type, newest first.
func (s *consentStore) ListGrantedByPatientAndType(patientID int64, consentType string) (
	[]model.ConsentRecord, error) {
	rows, err := s.dbClient.Query(&queryListGrantedByPatientAndType, patientID, consentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list granted consents: %w", err)
	}
	return buildConsentList(rows)
}

// ListExpiring returns granted consents whose expiry falls in [from, to],
// soonest first. When officeID is set the result is limited to consents
// granted by that office's staff.
func (s *consentStore) ListExpiring(from, to int64, officeID *int64) ([]model.ConsentRecord, error) {
	var rows []map[string]interface{}
	var err error
	if officeID != nil {
		rows, err = s.dbClient.Query(&queryListExpiringForOffice, *officeID, from, to)
	} else {
		rows, err = s.dbClient.Query(&queryListExpiring, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring consents: %w", err)
	}
	return buildConsentList(rows)
}

// ListDueForExpiry returns the IDs of granted consents whose expiry has
// passed. Records already expired or revoked fall out of the scan by
// status, which makes repeated sweeps idempotent.
func (s *consentStore) ListDueForExpiry(nowMillis int64) ([]string, error) {
	rows, err := s.dbClient.Query(&queryListDueForExpiry, nowMillis)
	if err != nil {
		return nil, fmt.Errorf("failed to list consents due for expiry: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id, err := dbutils.RowString(row, "CONSENT_ID")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// MarkRevoked transitions a granted consent to revoked, stamping the
// revocation time and actor. Returns the number of rows affected: zero
// means the record was absent or no longer granted.
func (s *consentStore) MarkRevoked(tx dbmodel.TxInterface, dbType, consentID string,
	revokedBy, nowMillis int64) (int64, error) {
	result, err := tx.Exec(queryMarkConsentRevoked.GetQuery(dbType), nowMillis, revokedBy, consentID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke consent %s: %w", consentID, err)
	}
	return result.RowsAffected()
}

// MarkExpired transitions a granted consent to expired. Returns the number
// of rows affected; zero means another transition won the race.
func (s *consentStore) MarkExpired(tx dbmodel.TxInterface, dbType, consentID string) (int64, error) {
	result, err := tx.Exec(queryMarkConsentExpired.GetQuery(dbType), consentID)
	if err != nil {
		return 0, fmt.Errorf("failed to expire consent %s: %w", consentID, err)
	}
	return result.RowsAffected()
}

// Delete removes a consent record outright. Maintenance use only.
func (s *consentStore) Delete(tx dbmodel.TxInterface, dbType, consentID string) (int64, error) {
	result, err := tx.Exec(queryDeleteConsent.GetQuery(dbType), consentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete consent %s: %w", consentID, err)
	}
	return result.RowsAffected()
}

func marshalEntities(entities []string) (interface{}, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize third party entities: %w", err)
	}
	return string(raw), nil
}

func buildConsentList(rows []map[string]interface{}) ([]model.ConsentRecord, error) {
	records := make([]model.ConsentRecord, 0, len(rows))
	for _, row := range rows {
		record, err := buildConsentFromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func buildConsentFromRow(row map[string]interface{}) (*model.ConsentRecord, error) {
	consentID, err := dbutils.RowString(row, "CONSENT_ID")
	if err != nil {
		return nil, err
	}
	patientID, err := dbutils.RowInt64(row, "PATIENT_ID")
	if err != nil {
		return nil, err
	}
	consentType, err := dbutils.RowString(row, "CONSENT_TYPE")
	if err != nil {
		return nil, err
	}
	version, err := dbutils.RowInt(row, "CONSENT_VERSION")
	if err != nil {
		return nil, err
	}
	consentText, err := dbutils.RowString(row, "CONSENT_TEXT")
	if err != nil {
		return nil, err
	}
	purpose, err := dbutils.RowString(row, "PURPOSE")
	if err != nil {
		return nil, err
	}
	status, err := dbutils.RowString(row, "CURRENT_STATUS")
	if err != nil {
		return nil, err
	}
	grantedTime, err := dbutils.RowInt64(row, "GRANTED_TIME")
	if err != nil {
		return nil, err
	}
	grantedBy, err := dbutils.RowInt64(row, "GRANTED_BY")
	if err != nil {
		return nil, err
	}
	sharing, err := dbutils.RowBool(row, "THIRD_PARTY_SHARING")
	if err != nil {
		return nil, err
	}

	record := &model.ConsentRecord{
		ConsentID:         consentID,
		PatientID:         patientID,
		ConsentType:       consentType,
		ConsentVersion:    version,
		ConsentText:       consentText,
		Purpose:           purpose,
		Scope:             dbutils.RowNullableString(row, "SCOPE"),
		CurrentStatus:     status,
		GrantedTime:       grantedTime,
		GrantedBy:         grantedBy,
		RevokedTime:       dbutils.RowNullableInt64(row, "REVOKED_TIME"),
		RevokedBy:         dbutils.RowNullableInt64(row, "REVOKED_BY"),
		ExpiryTime:        dbutils.RowNullableInt64(row, "EXPIRY_TIME"),
		ThirdPartySharing: sharing,
	}

	if raw := dbutils.RowNullableString(row, "THIRD_PARTY_ENTITIES"); raw != nil && *raw != "" {
		var entities []string
		if err := json.Unmarshal([]byte(*raw), &entities); err != nil {
			return nil, fmt.Errorf("failed to parse third party entities for %s: %w", consentID, err)
		}
		record.ThirdPartyEntities = entities
	}
	return record, nil
}
