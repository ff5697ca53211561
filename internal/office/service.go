package office

import (
	"strings"

	billingmodel "github.com/wso2/practice-management-api/internal/billingaudit/model"
	"github.com/wso2/practice-management-api/internal/office/model"
	"github.com/wso2/practice-management-api/internal/office/validator"
	"github.com/wso2/practice-management-api/internal/system/clock"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/error/codes"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/log"
	"github.com/wso2/practice-management-api/internal/system/stores"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const loggerComponentName = "OfficeService"

// AuditWriter is the billing audit dependency of the office service.
type AuditWriter interface {
	AppendEntry(tx dbmodel.TxInterface, entry billingmodel.BillingAuditEntry) error
}

// OfficeServiceInterface exposes office subscription state operations.
type OfficeServiceInterface interface {
	CreateOffice(request *model.OfficeCreateRequest, actorID *int64) (*model.Office, *serviceerror.ServiceError)
	GetOffice(officeID int64) (*model.Office, *serviceerror.ServiceError)
	UpdateOffice(officeID int64, request *model.OfficeUpdateRequest, changedBy *int64) (
		*model.OfficeUpdateResponse, *serviceerror.ServiceError)
}

type officeService struct {
	store    OfficeStore
	audit    AuditWriter
	registry *stores.StoreRegistry
	dbType   string
	clock    clock.Clock
}

// NewOfficeService creates an office service.
func NewOfficeService(store OfficeStore, audit AuditWriter, registry *stores.StoreRegistry,
	dbType string, clk clock.Clock) OfficeServiceInterface {
	return &officeService{
		store:    store,
		audit:    audit,
		registry: registry,
		dbType:   dbType,
		clock:    clk,
	}
}

// CreateOffice inserts the office and its SUBSCRIPTION_INITIALIZED audit
// entry in a single transaction. The audit entry references the identity
// the database assigns inside that same transaction.
func (s *officeService) CreateOffice(request *model.OfficeCreateRequest, actorID *int64) (
	*model.Office, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := validator.ValidateCreateRequest(request); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	now := clock.NowMillis(s.clock)
	office := &model.Office{
		Name:                  strings.TrimSpace(request.Name),
		SubscriptionStatus:    model.NormalizeSubscriptionStatus(request.SubscriptionStatus),
		PaymentCustomerID:     request.PaymentCustomerID,
		PaymentSubscriptionID: request.PaymentSubscriptionID,
		CurrentPlanID:         request.CurrentPlanID,
		BillingAnchorTime:     request.BillingAnchorTime,
		CreatedTime:           now,
		UpdatedTime:           now,
	}

	auditFailed := false
	err := s.registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			officeID, err := s.store.Create(tx, s.dbType, office)
			if err != nil {
				return err
			}
			office.OfficeID = officeID
			return nil
		},
		func(tx dbmodel.TxInterface) error {
			details := map[string]interface{}{
				"subscription_status": office.SubscriptionStatus,
			}
			if office.CurrentPlanID != nil {
				details["plan_id"] = *office.CurrentPlanID
			}
			if err := s.audit.AppendEntry(tx, billingmodel.BillingAuditEntry{
				OfficeID:  office.OfficeID,
				EventType: billingmodel.EventSubscriptionInitialized,
				UserID:    actorID,
				Details:   details,
			}); err != nil {
				auditFailed = true
				return err
			}
			return nil
		},
	})
	if err != nil {
		logger.Error("Failed to create office", log.Error(err))
		if auditFailed {
			return nil, &serviceerror.AuditWriteError
		}
		svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to create office")
		svcErr.Code = codes.OfficeCreationFailed
		return nil, svcErr
	}

	logger.Info("Office created",
		log.Int64("office_id", office.OfficeID),
		log.String("subscription_status", office.SubscriptionStatus),
	)
	return office, nil
}

// GetOffice returns the office by ID.
func (s *officeService) GetOffice(officeID int64) (*model.Office, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidatePositiveID("officeId", officeID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	office, err := s.store.GetByID(officeID)
	if err != nil {
		logger.Error("Failed to fetch office", log.Int64("office_id", officeID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}
	if office == nil {
		svcErr := serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "Office not found")
		svcErr.Code = codes.OfficeNotFound
		return nil, svcErr
	}
	return office, nil
}

// UpdateOffice applies a partial update. Present patch fields are diffed
// against the persisted record; subscription status is compared after
// normalizing both sides. A no-op patch writes nothing and logs nothing.
// The persisted update and its audit entries commit in one transaction.
func (s *officeService) UpdateOffice(officeID int64, request *model.OfficeUpdateRequest,
	changedBy *int64) (*model.OfficeUpdateResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidatePositiveID("officeId", officeID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := validator.ValidateUpdateRequest(request); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	current, err := s.store.GetByID(officeID)
	if err != nil {
		logger.Error("Failed to fetch office", log.Int64("office_id", officeID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}
	if current == nil {
		svcErr := serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "Office not found")
		svcErr.Code = codes.OfficeNotFound
		return nil, svcErr
	}

	updated := *current
	changes := make(map[string]model.FieldChange)

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name != current.Name {
			changes["name"] = model.FieldChange{Old: current.Name, New: name}
			updated.Name = name
		}
	}
	statusChanged := false
	if request.SubscriptionStatus != nil {
		newStatus := model.NormalizeSubscriptionStatus(*request.SubscriptionStatus)
		if newStatus != current.SubscriptionStatus {
			changes["subscription_status"] = model.FieldChange{Old: current.SubscriptionStatus, New: newStatus}
			updated.SubscriptionStatus = newStatus
			statusChanged = true
		}
	}
	diffNullableString("payment_customer_id", current.PaymentCustomerID, request.PaymentCustomerID,
		changes, &updated.PaymentCustomerID)
	diffNullableString("payment_subscription_id", current.PaymentSubscriptionID, request.PaymentSubscriptionID,
		changes, &updated.PaymentSubscriptionID)
	diffNullableString("current_plan_id", current.CurrentPlanID, request.CurrentPlanID,
		changes, &updated.CurrentPlanID)
	if request.BillingAnchorTime != nil {
		if current.BillingAnchorTime == nil || *current.BillingAnchorTime != *request.BillingAnchorTime {
			changes["billing_anchor_time"] = model.FieldChange{
				Old: nullableInt64Value(current.BillingAnchorTime),
				New: *request.BillingAnchorTime,
			}
			updated.BillingAnchorTime = request.BillingAnchorTime
		}
	}

	if len(changes) == 0 {
		logger.Debug("Office update was a no-op", log.Int64("office_id", officeID))
		return &model.OfficeUpdateResponse{Office: *current, Changes: changes}, nil
	}

	updated.UpdatedTime = clock.NowMillis(s.clock)

	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return s.store.Update(tx, s.dbType, &updated)
		},
	}
	auditFailed := false
	if statusChanged {
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			var changedByValue interface{}
			if changedBy != nil {
				changedByValue = *changedBy
			}
			if err := s.audit.AppendEntry(tx, billingmodel.BillingAuditEntry{
				OfficeID:  officeID,
				EventType: billingmodel.EventSubscriptionStatusChanged,
				UserID:    changedBy,
				Details: map[string]interface{}{
					"old_status":         changes["subscription_status"].Old,
					"new_status":         changes["subscription_status"].New,
					"changed_by_user_id": changedByValue,
				},
			}); err != nil {
				auditFailed = true
				return err
			}
			return nil
		})
	}
	if hasNonStatusChange(changes) {
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			if err := s.audit.AppendEntry(tx, billingmodel.BillingAuditEntry{
				OfficeID:  officeID,
				EventType: billingmodel.EventOfficeProfileUpdated,
				UserID:    changedBy,
				Outcome:   billingmodel.OutcomeInfo,
				Details:   map[string]interface{}{"changes": nonStatusChanges(changes)},
			}); err != nil {
				auditFailed = true
				return err
			}
			return nil
		})
	}

	if err := s.registry.ExecuteTransaction(queries); err != nil {
		logger.Error("Failed to update office", log.Int64("office_id", officeID), log.Error(err))
		if auditFailed {
			return nil, &serviceerror.AuditWriteError
		}
		svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to update office")
		svcErr.Code = codes.OfficeUpdateFailed
		return nil, svcErr
	}

	logger.Info("Office updated",
		log.Int64("office_id", officeID),
		log.Int("changed_fields", len(changes)),
		log.Bool("subscription_status_changed", statusChanged),
	)
	return &model.OfficeUpdateResponse{Office: updated, Changes: changes}, nil
}

func diffNullableString(field string, current *string, patch *string,
	changes map[string]model.FieldChange, target **string) {
	if patch == nil {
		return
	}
	if current != nil && *current == *patch {
		return
	}
	changes[field] = model.FieldChange{Old: nullableStringValue(current), New: *patch}
	*target = patch
}

func nullableStringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt64Value(n *int64) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

func hasNonStatusChange(changes map[string]model.FieldChange) bool {
	for field := range changes {
		if field != "subscription_status" {
			return true
		}
	}
	return false
}

func nonStatusChanges(changes map[string]model.FieldChange) map[string]interface{} {
	out := make(map[string]interface{})
	for field, change := range changes {
		if field != "subscription_status" {
			out[field] = map[string]interface{}{"old": change.Old, "new": change.New}
		}
	}
	return out
}
