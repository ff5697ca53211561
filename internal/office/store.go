package office

import (
	"fmt"

	"github.com/wso2/practice-management-api/internal/office/model"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/database/provider"
	dbutils "github.com/wso2/practice-management-api/internal/system/database/utils"
)

var (
	queryInsertOffice = dbmodel.DBQuery{
		ID: "OFQ-00001",
		Query: "INSERT INTO OFFICE (NAME, SUBSCRIPTION_STATUS, PAYMENT_CUSTOMER_ID, " +
			"PAYMENT_SUBSCRIPTION_ID, CURRENT_PLAN_ID, BILLING_ANCHOR_TIME, CREATED_TIME, " +
			"UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	}

	queryGetOfficeByID = dbmodel.DBQuery{
		ID: "OFQ-00002",
		Query: "SELECT OFFICE_ID, NAME, SUBSCRIPTION_STATUS, PAYMENT_CUSTOMER_ID, " +
			"PAYMENT_SUBSCRIPTION_ID, CURRENT_PLAN_ID, BILLING_ANCHOR_TIME, CREATED_TIME, " +
			"UPDATED_TIME FROM OFFICE WHERE OFFICE_ID = ?",
	}

	queryUpdateOffice = dbmodel.DBQuery{
		ID: "OFQ-00003",
		Query: "UPDATE OFFICE SET NAME = ?, SUBSCRIPTION_STATUS = ?, PAYMENT_CUSTOMER_ID = ?, " +
			"PAYMENT_SUBSCRIPTION_ID = ?, CURRENT_PLAN_ID = ?, BILLING_ANCHOR_TIME = ?, " +
			"UPDATED_TIME = ? WHERE OFFICE_ID = ?",
	}

	queryOfficeExists = dbmodel.DBQuery{
		ID:    "OFQ-00004",
		Query: "SELECT COUNT(*) AS TOTAL FROM OFFICE WHERE OFFICE_ID = ?",
	}
)

// OfficeStore defines persistence operations for offices. Mutations are
// transaction-scoped so the caller can commit the office write and its
// billing audit entry atomically.
type OfficeStore interface {
	Create(tx dbmodel.TxInterface, dbType string, office *model.Office) (int64, error)
	GetByID(officeID int64) (*model.Office, error)
	Update(tx dbmodel.TxInterface, dbType string, office *model.Office) error
	OfficeExists(officeID int64) (bool, error)
}

type officeStore struct {
	dbClient provider.DBClientInterface
}

// NewOfficeStore creates an office store backed by the given client.
func NewOfficeStore(dbClient provider.DBClientInterface) OfficeStore {
	return &officeStore{dbClient: dbClient}
}

// Create inserts an office inside the caller's transaction and returns the
// identity assigned by the database.
func (s *officeStore) Create(tx dbmodel.TxInterface, dbType string, office *model.Office) (int64, error) {
	result, err := tx.Exec(queryInsertOffice.GetQuery(dbType),
		office.Name, office.SubscriptionStatus, office.PaymentCustomerID,
		office.PaymentSubscriptionID, office.CurrentPlanID, office.BillingAnchorTime,
		office.CreatedTime, office.UpdatedTime)
	if err != nil {
		return 0, fmt.Errorf("failed to insert office: %w", err)
	}
	officeID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read assigned office id: %w", err)
	}
	return officeID, nil
}

// GetByID returns the office, or nil when no such office exists.
func (s *officeStore) GetByID(officeID int64) (*model.Office, error) {
	rows, err := s.dbClient.Query(&queryGetOfficeByID, officeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch office %d: %w", officeID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return buildOfficeFromRow(rows[0])
}

// Update persists the full office record inside the caller's transaction.
func (s *officeStore) Update(tx dbmodel.TxInterface, dbType string, office *model.Office) error {
	_, err := tx.Exec(queryUpdateOffice.GetQuery(dbType),
		office.Name, office.SubscriptionStatus, office.PaymentCustomerID,
		office.PaymentSubscriptionID, office.CurrentPlanID, office.BillingAnchorTime,
		office.UpdatedTime, office.OfficeID)
	if err != nil {
		return fmt.Errorf("failed to update office %d: %w", office.OfficeID, err)
	}
	return nil
}

// OfficeExists reports whether an office row exists.
func (s *officeStore) OfficeExists(officeID int64) (bool, error) {
	rows, err := s.dbClient.Query(&queryOfficeExists, officeID)
	if err != nil {
		return false, fmt.Errorf("failed to check office %d: %w", officeID, err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	total, err := dbutils.RowInt(rows[0], "TOTAL")
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func buildOfficeFromRow(row map[string]interface{}) (*model.Office, error) {
	officeID, err := dbutils.RowInt64(row, "OFFICE_ID")
	if err != nil {
		return nil, err
	}
	name, err := dbutils.RowString(row, "NAME")
	if err != nil {
		return nil, err
	}
	status, err := dbutils.RowString(row, "SUBSCRIPTION_STATUS")
	if err != nil {
		return nil, err
	}
	createdTime, err := dbutils.RowInt64(row, "CREATED_TIME")
	if err != nil {
		return nil, err
	}
	updatedTime, err := dbutils.RowInt64(row, "UPDATED_TIME")
	if err != nil {
		return nil, err
	}

	return &model.Office{
		OfficeID:              officeID,
		Name:                  name,
		SubscriptionStatus:    model.NormalizeSubscriptionStatus(status),
		PaymentCustomerID:     dbutils.RowNullableString(row, "PAYMENT_CUSTOMER_ID"),
		PaymentSubscriptionID: dbutils.RowNullableString(row, "PAYMENT_SUBSCRIPTION_ID"),
		CurrentPlanID:         dbutils.RowNullableString(row, "CURRENT_PLAN_ID"),
		BillingAnchorTime:     dbutils.RowNullableInt64(row, "BILLING_ANCHOR_TIME"),
		CreatedTime:           createdTime,
		UpdatedTime:           updatedTime,
	}, nil
}
