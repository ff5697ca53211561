package billingaudit

import (
	"github.com/wso2/practice-management-api/internal/billingaudit/model"
	"github.com/wso2/practice-management-api/internal/system/clock"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/error/codes"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/log"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const loggerComponentName = "BillingAuditService"

// Writer appends billing audit entries inside a caller-owned transaction.
// A write failure is fatal to that transaction: the audited mutation must
// not commit without its trail entry.
type Writer interface {
	AppendEntry(tx dbmodel.TxInterface, entry model.BillingAuditEntry) error
}

// OfficeExistenceChecker reports whether an office exists. Implemented by
// the office store; injected here to keep the audit read path honest about
// unknown offices without a package cycle.
type OfficeExistenceChecker interface {
	OfficeExists(officeID int64) (bool, error)
}

// BillingAuditServiceInterface exposes billing audit writes and reads.
type BillingAuditServiceInterface interface {
	Writer
	ListOfficeAudit(officeID int64, filters model.BillingAuditSearchFilters) (
		*model.BillingAuditListResponse, *serviceerror.ServiceError)
}

type billingAuditService struct {
	store        BillingAuditStore
	officeExists OfficeExistenceChecker
	dbType       string
	source       string
	clock        clock.Clock
}

// NewBillingAuditService creates a billing audit service. source identifies
// this deployment in every entry it writes.
func NewBillingAuditService(store BillingAuditStore, officeExists OfficeExistenceChecker,
	dbType, source string, clk clock.Clock) BillingAuditServiceInterface {
	return &billingAuditService{
		store:        store,
		officeExists: officeExists,
		dbType:       dbType,
		source:       source,
		clock:        clk,
	}
}

// AppendEntry writes one audit entry in the caller's transaction, assigning
// the entry ID, source and timestamp when not already set.
func (s *billingAuditService) AppendEntry(tx dbmodel.TxInterface, entry model.BillingAuditEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = utils.GenerateUUID()
	}
	if entry.EventTime == 0 {
		entry.EventTime = clock.NowMillis(s.clock)
	}
	if entry.Source == "" {
		entry.Source = s.source
	}
	if entry.Outcome == "" {
		entry.Outcome = model.OutcomeSuccess
	}
	return s.store.Append(tx, s.dbType, &entry)
}

// ListOfficeAudit returns the office's billing audit trail, newest first.
func (s *billingAuditService) ListOfficeAudit(officeID int64, filters model.BillingAuditSearchFilters) (
	*model.BillingAuditListResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidatePositiveID("officeId", officeID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	exists, err := s.officeExists.OfficeExists(officeID)
	if err != nil {
		logger.Error("Failed to check office existence", log.Int64("office_id", officeID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}
	if !exists {
		svcErr := serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "Office not found")
		svcErr.Code = codes.OfficeNotFound
		return nil, svcErr
	}

	filters.Limit, filters.Offset = utils.NormalizePagination(filters.Limit, filters.Offset)

	entries, total, err := s.store.ListByOffice(officeID, filters)
	if err != nil {
		logger.Error("Failed to list billing audit entries", log.Int64("office_id", officeID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}

	return &model.BillingAuditListResponse{
		OfficeID:     officeID,
		TotalResults: total,
		Count:        len(entries),
		Limit:        filters.Limit,
		Offset:       filters.Offset,
		Entries:      entries,
	}, nil
}
