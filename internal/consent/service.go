package consent

import (
	auditmodel "github.com/wso2/practice-management-api/internal/auditevents/model"
	"github.com/wso2/practice-management-api/internal/consent/model"
	"github.com/wso2/practice-management-api/internal/consent/validator"
	"github.com/wso2/practice-management-api/internal/system/clock"
	"github.com/wso2/practice-management-api/internal/system/constants"
	dbmodel "github.com/wso2/practice-management-api/internal/system/database/model"
	"github.com/wso2/practice-management-api/internal/system/error/codes"
	"github.com/wso2/practice-management-api/internal/system/error/serviceerror"
	"github.com/wso2/practice-management-api/internal/system/log"
	"github.com/wso2/practice-management-api/internal/system/stores"
	"github.com/wso2/practice-management-api/internal/system/utils"
)

const loggerComponentName = "ConsentService"

// EventRecorder is the audit event dependency of the consent service.
// Recording is best-effort and never fails the operation.
type EventRecorder interface {
	Record(event auditmodel.AuditEvent)
}

// ConsentServiceInterface exposes the consent lifecycle operations.
type ConsentServiceInterface interface {
	CreateConsent(patientID, grantedBy int64, request *model.ConsentCreateRequest) (
		*model.ConsentResponse, *serviceerror.ServiceError)
	GetConsent(consentID string, actorID *int64) (*model.ConsentResponse, *serviceerror.ServiceError)
	SearchConsents(filters model.ConsentSearchFilters) (
		*model.ConsentSearchResponse, *serviceerror.ServiceError)
	ListPatientConsents(patientID int64, actorID *int64, filters model.ConsentSearchFilters) (
		*model.ConsentSearchResponse, *serviceerror.ServiceError)
	GetExpiringSoon(daysAhead int, officeID *int64) ([]model.ConsentResponse, *serviceerror.ServiceError)
	RevokeConsent(consentID string, revokedBy int64) (*model.ConsentResponse, *serviceerror.ServiceError)
	RevokeAllOfType(patientID int64, consentType string, revokedBy int64) (
		*model.RevokeAllResponse, *serviceerror.ServiceError)
	ExpireDueConsents() (*model.ExpireSweepResponse, *serviceerror.ServiceError)
	DeleteConsent(consentID string, actorID *int64) *serviceerror.ServiceError
}

type consentService struct {
	store    ConsentStore
	registry *stores.StoreRegistry
	events   EventRecorder
	dbType   string
	clock    clock.Clock
}

// NewConsentService creates a consent service.
func NewConsentService(store ConsentStore, registry *stores.StoreRegistry, events EventRecorder,
	dbType string, clk clock.Clock) ConsentServiceInterface {
	return &consentService{
		store:    store,
		registry: registry,
		events:   events,
		dbType:   dbType,
		clock:    clk,
	}
}

// CreateConsent grants a new consent for the patient. The record starts
// granted with the grant time taken from the service clock.
func (s *consentService) CreateConsent(patientID, grantedBy int64,
	request *model.ConsentCreateRequest) (*model.ConsentResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	now := clock.NowMillis(s.clock)
	if err := validator.ValidateCreateRequest(patientID, grantedBy, request, now); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	version := 1
	if request.ConsentVersion != nil {
		version = *request.ConsentVersion
	}
	record := &model.ConsentRecord{
		ConsentID:          utils.GenerateUUID(),
		PatientID:          patientID,
		ConsentType:        request.ConsentType,
		ConsentVersion:     version,
		ConsentText:        request.ConsentText,
		Purpose:            request.Purpose,
		Scope:              request.Scope,
		CurrentStatus:      model.StatusGranted,
		GrantedTime:        now,
		GrantedBy:          grantedBy,
		ExpiryTime:         request.ExpiryTime,
		ThirdPartySharing:  request.ThirdPartySharing,
		ThirdPartyEntities: request.ThirdPartyEntities,
	}

	err := s.registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return s.store.Create(tx, s.dbType, record)
		},
	})
	if err != nil {
		logger.Error("Failed to create consent record",
			log.Int64("patient_id", patientID),
			log.String("consent_type", record.ConsentType),
			log.Error(err),
		)
		s.events.Record(auditmodel.AuditEvent{
			Action:      auditmodel.ActionCreateConsent,
			Outcome:     auditmodel.OutcomeFailure,
			UserID:      &grantedBy,
			PatientID:   &patientID,
			ConsentType: &record.ConsentType,
			Details:     map[string]interface{}{"error": err.Error()},
		})
		svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to create consent record")
		svcErr.Code = codes.ConsentCreationFailed
		return nil, svcErr
	}

	logger.Info("Consent granted",
		log.String("consent_id", record.ConsentID),
		log.Int64("patient_id", patientID),
		log.String("consent_type", record.ConsentType),
	)
	s.events.Record(auditmodel.AuditEvent{
		Action:      auditmodel.ActionCreateConsent,
		UserID:      &grantedBy,
		PatientID:   &patientID,
		ConsentID:   &record.ConsentID,
		ConsentType: &record.ConsentType,
		Details:     map[string]interface{}{"consent_version": record.ConsentVersion},
	})

	response := model.NewConsentResponse(*record, now)
	return &response, nil
}

// GetConsent returns a single consent record by ID.
func (s *consentService) GetConsent(consentID string, actorID *int64) (
	*model.ConsentResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	record, err := s.store.GetByID(consentID)
	if err != nil {
		logger.Error("Failed to fetch consent record", log.String("consent_id", consentID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}
	if record == nil {
		return nil, consentNotFound()
	}

	s.events.Record(auditmodel.AuditEvent{
		Action:      auditmodel.ActionViewConsent,
		UserID:      actorID,
		PatientID:   &record.PatientID,
		ConsentID:   &record.ConsentID,
		ConsentType: &record.ConsentType,
	})

	response := model.NewConsentResponse(*record, clock.NowMillis(s.clock))
	return &response, nil
}

// SearchConsents returns consent records matching the filters, newest
// grant first.
func (s *consentService) SearchConsents(filters model.ConsentSearchFilters) (
	*model.ConsentSearchResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := validator.ValidateSearchFilters(&filters); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	filters.Limit, filters.Offset = utils.NormalizePagination(filters.Limit, filters.Offset)

	now := clock.NowMillis(s.clock)
	records, total, err := s.store.Search(filters, now)
	if err != nil {
		logger.Error("Consent search failed", log.Error(err))
		return nil, &serviceerror.DatabaseError
	}

	return &model.ConsentSearchResponse{
		TotalResults: total,
		Count:        len(records),
		Limit:        filters.Limit,
		Offset:       filters.Offset,
		Consents:     buildResponses(records, now),
	}, nil
}

// ListPatientConsents returns the patient's consent records, applying any
// additional filters, and records the access in the audit trail.
func (s *consentService) ListPatientConsents(patientID int64, actorID *int64,
	filters model.ConsentSearchFilters) (*model.ConsentSearchResponse, *serviceerror.ServiceError) {
	if err := utils.ValidatePositiveID("patientId", patientID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	filters.PatientID = &patientID
	response, svcErr := s.SearchConsents(filters)
	if svcErr != nil {
		return nil, svcErr
	}

	s.events.Record(auditmodel.AuditEvent{
		Action:    auditmodel.ActionViewPatientConsents,
		UserID:    actorID,
		PatientID: &patientID,
		Details:   map[string]interface{}{"result_count": response.Count},
	})
	return response, nil
}

// GetExpiringSoon returns granted consents whose expiry falls within the
// next daysAhead days, soonest first. officeID narrows the result to
// consents granted by that office's staff.
func (s *consentService) GetExpiringSoon(daysAhead int, officeID *int64) (
	[]model.ConsentResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if daysAhead <= 0 {
		daysAhead = constants.DefaultExpiringSoonDays
	}
	if officeID != nil {
		if err := utils.ValidatePositiveID("officeId", *officeID); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
		}
	}

	now := clock.NowMillis(s.clock)
	to := now + utils.DaysToMillis(daysAhead)

	records, err := s.store.ListExpiring(now, to, officeID)
	if err != nil {
		logger.Error("Failed to list expiring consents", log.Error(err))
		return nil, &serviceerror.DatabaseError
	}
	return buildResponses(records, now), nil
}

// RevokeConsent transitions a granted consent to revoked. The transition
// is a status-guarded update: when it affects no rows the record is
// re-read to distinguish a missing record from one already terminal.
func (s *consentService) RevokeConsent(consentID string, revokedBy int64) (
	*model.ConsentResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidatePositiveID("revokedBy", revokedBy); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	now := clock.NowMillis(s.clock)
	var affected int64
	err := s.registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			rows, err := s.store.MarkRevoked(tx, s.dbType, consentID, revokedBy, now)
			if err != nil {
				return err
			}
			affected = rows
			return nil
		},
	})
	if err != nil {
		logger.Error("Failed to revoke consent", log.String("consent_id", consentID), log.Error(err))
		s.events.Record(auditmodel.AuditEvent{
			Action:    auditmodel.ActionRevokeConsent,
			Outcome:   auditmodel.OutcomeFailure,
			UserID:    &revokedBy,
			ConsentID: &consentID,
			Details:   map[string]interface{}{"error": err.Error()},
		})
		svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to revoke consent")
		svcErr.Code = codes.ConsentRevokeFailed
		return nil, svcErr
	}

	if affected == 0 {
		record, err := s.store.GetByID(consentID)
		if err != nil {
			return nil, &serviceerror.DatabaseError
		}
		if record == nil {
			return nil, consentNotFound()
		}
		if record.IsTerminal() {
			svcErr := serviceerror.CustomServiceError(serviceerror.AlreadyTerminalError,
				"Consent is already "+record.CurrentStatus)
			svcErr.Code = codes.ConsentAlreadyRevoked
			return nil, svcErr
		}
		// The guard matched nothing yet the record reads granted; treat
		// as a transient conflict rather than silently retrying.
		logger.Error("Revoke affected no rows for a granted record", log.String("consent_id", consentID))
		return nil, &serviceerror.DatabaseError
	}

	record, err := s.store.GetByID(consentID)
	if err != nil || record == nil {
		logger.Error("Failed to reload consent after revoke", log.String("consent_id", consentID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}

	logger.Info("Consent revoked",
		log.String("consent_id", consentID),
		log.Int64("patient_id", record.PatientID),
		log.Int64("revoked_by", revokedBy),
	)
	s.events.Record(auditmodel.AuditEvent{
		Action:      auditmodel.ActionRevokeConsent,
		UserID:      &revokedBy,
		PatientID:   &record.PatientID,
		ConsentID:   &record.ConsentID,
		ConsentType: &record.ConsentType,
	})

	response := model.NewConsentResponse(*record, now)
	return &response, nil
}

// RevokeAllOfType revokes every granted consent of one type for the
// patient in a single transaction. Zero matches is a successful no-op,
// not an error.
func (s *consentService) RevokeAllOfType(patientID int64, consentType string, revokedBy int64) (
	*model.RevokeAllResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidatePositiveID("patientId", patientID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidateRequired("consentType", consentType); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}
	if err := utils.ValidatePositiveID("revokedBy", revokedBy); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	granted, err := s.store.ListGrantedByPatientAndType(patientID, consentType)
	if err != nil {
		logger.Error("Failed to list granted consents", log.Int64("patient_id", patientID), log.Error(err))
		return nil, &serviceerror.DatabaseError
	}

	now := clock.NowMillis(s.clock)
	revoked := make([]model.ConsentResponse, 0, len(granted))

	if len(granted) > 0 {
		queries := make([]func(tx dbmodel.TxInterface) error, 0, len(granted))
		for i := range granted {
			record := granted[i]
			queries = append(queries, func(tx dbmodel.TxInterface) error {
				rows, err := s.store.MarkRevoked(tx, s.dbType, record.ConsentID, revokedBy, now)
				if err != nil {
					return err
				}
				if rows > 0 {
					record.CurrentStatus = model.StatusRevoked
					record.RevokedTime = &now
					record.RevokedBy = &revokedBy
					revoked = append(revoked, model.NewConsentResponse(record, now))
				}
				return nil
			})
		}

		if err := s.registry.ExecuteTransaction(queries); err != nil {
			logger.Error("Failed to revoke consents by type",
				log.Int64("patient_id", patientID),
				log.String("consent_type", consentType),
				log.Error(err),
			)
			s.events.Record(auditmodel.AuditEvent{
				Action:      auditmodel.ActionRevokeAllOfType,
				Outcome:     auditmodel.OutcomeFailure,
				UserID:      &revokedBy,
				PatientID:   &patientID,
				ConsentType: &consentType,
				Details:     map[string]interface{}{"error": err.Error()},
			})
			svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to revoke consents")
			svcErr.Code = codes.ConsentRevokeFailed
			return nil, svcErr
		}
	}

	logger.Info("Consents revoked by type",
		log.Int64("patient_id", patientID),
		log.String("consent_type", consentType),
		log.Int("revoked_count", len(revoked)),
	)
	s.events.Record(auditmodel.AuditEvent{
		Action:      auditmodel.ActionRevokeAllOfType,
		UserID:      &revokedBy,
		PatientID:   &patientID,
		ConsentType: &consentType,
		Details:     map[string]interface{}{"revoked_count": len(revoked)},
	})

	return &model.RevokeAllResponse{
		PatientID:    patientID,
		ConsentType:  consentType,
		RevokedCount: len(revoked),
		Revoked:      revoked,
	}, nil
}

// ExpireDueConsents transitions every granted consent whose expiry has
// passed to expired. Each transition carries the status guard, so the
// sweep is idempotent and safe to run concurrently with request traffic.
func (s *consentService) ExpireDueConsents() (*model.ExpireSweepResponse, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	now := clock.NowMillis(s.clock)
	due, err := s.store.ListDueForExpiry(now)
	if err != nil {
		logger.Error("Failed to scan for due consents", log.Error(err))
		return nil, &serviceerror.DatabaseError
	}

	var expired int64
	if len(due) > 0 {
		queries := make([]func(tx dbmodel.TxInterface) error, 0, len(due))
		for _, consentID := range due {
			id := consentID
			queries = append(queries, func(tx dbmodel.TxInterface) error {
				rows, err := s.store.MarkExpired(tx, s.dbType, id)
				if err != nil {
					return err
				}
				expired += rows
				return nil
			})
		}

		if err := s.registry.ExecuteTransaction(queries); err != nil {
			logger.Error("Expiry sweep failed", log.Error(err))
			s.events.Record(auditmodel.AuditEvent{
				Action:  auditmodel.ActionExpireSweep,
				Outcome: auditmodel.OutcomeFailure,
				Details: map[string]interface{}{
					"actor": constants.ActorSystem,
					"error": err.Error(),
				},
			})
			svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Expiry sweep failed")
			svcErr.Code = codes.ConsentExpireFailed
			return nil, svcErr
		}
	}

	logger.Info("Expiry sweep completed",
		log.Int("candidates", len(due)),
		log.Int64("expired_count", expired),
	)
	s.events.Record(auditmodel.AuditEvent{
		Action: auditmodel.ActionExpireSweep,
		Details: map[string]interface{}{
			"actor":         constants.ActorSystem,
			"expired_count": expired,
		},
	})

	return &model.ExpireSweepResponse{ExpiredCount: int(expired), SweepTime: now}, nil
}

// DeleteConsent removes a consent record outright. This is a maintenance
// escape hatch for data-correction work and is deliberately not exposed
// over HTTP; audit history for the record is retained.
func (s *consentService) DeleteConsent(consentID string, actorID *int64) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := utils.ValidateConsentID(consentID); err != nil {
		return serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	var affected int64
	err := s.registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			rows, err := s.store.Delete(tx, s.dbType, consentID)
			if err != nil {
				return err
			}
			affected = rows
			return nil
		},
	})
	if err != nil {
		logger.Error("Failed to delete consent", log.String("consent_id", consentID), log.Error(err))
		svcErr := serviceerror.CustomServiceError(serviceerror.DatabaseError, "Failed to delete consent")
		svcErr.Code = codes.ConsentDeleteFailed
		return svcErr
	}
	if affected == 0 {
		return consentNotFound()
	}

	logger.Warn("Consent record deleted", log.String("consent_id", consentID))
	s.events.Record(auditmodel.AuditEvent{
		Action:    auditmodel.ActionDeleteConsent,
		UserID:    actorID,
		ConsentID: &consentID,
	})
	return nil
}

func consentNotFound() *serviceerror.ServiceError {
	svcErr := serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError, "Consent record not found")
	svcErr.Code = codes.ConsentNotFound
	return svcErr
}

func buildResponses(records []model.ConsentRecord, nowMillis int64) []model.ConsentResponse {
	responses := make([]model.ConsentResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, model.NewConsentResponse(record, nowMillis))
	}
	return responses
}
