package service

import (
	"context"
	"math"
	"time"

	"fitops/pkg/logger"
	"fitops/pkg/store/mysql"
	mysqlModel "fitops/pkg/store/mysql/model"
)

// CreateAPILogParams are the caller-supplied fields of one API call record
type CreateAPILogParams struct {
	Endpoint       string
	HTTPMethod     string
	RequestData    mysqlModel.JSONMap
	ResponseData   mysqlModel.JSONMap
	StatusCode     int
	ResponseTimeMs *int
	ServiceFrom    string
	ServiceTo      string
	UserID         *int64
}

// APILogService appends API call records
type APILogService struct {
	repo *mysql.APILogRepository
}

// NewAPILogService creates a new API log service
func NewAPILogService(repo *mysql.APILogRepository) *APILogService {
	return &APILogService{repo: repo}
}

// Record appends one API call record. The actor's identity is used when the
// payload does not name a user.
func (s *APILogService) Record(ctx context.Context, actor Actor, params CreateAPILogParams) (*mysqlModel.APILog, error) {
	userID := params.UserID
	if userID == nil {
		userID = actor.UserID
	}

	entry := &mysqlModel.APILog{
		UserID:         userID,
		Endpoint:       params.Endpoint,
		HTTPMethod:     params.HTTPMethod,
		RequestData:    params.RequestData,
		ResponseData:   params.ResponseData,
		StatusCode:     params.StatusCode,
		ResponseTimeMs: params.ResponseTimeMs,
		IPAddress:      actor.IPAddress,
		UserAgent:      actor.UserAgent,
		ServiceFrom:    params.ServiceFrom,
		ServiceTo:      params.ServiceTo,
		Timestamp:      time.Now(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListErrors returns one page of error records in the last N hours
func (s *APILogService) ListErrors(ctx context.Context, hours, page int) ([]*mysqlModel.APILog, int64, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	return s.repo.ListErrors(ctx, since, page)
}

// LogOutbound implements serviceclient.RequestLogger: every outbound peer
// call lands in api_logs with this service as the origin. Write failures
// are logged and swallowed; call logging never fails the call.
func (s *APILogService) LogOutbound(ctx context.Context, endpoint, method string, request, response map[string]interface{}, statusCode int, responseTimeMs float64, serviceTo string) {
	rt := int(math.Round(responseTimeMs))
	entry := &mysqlModel.APILog{
		Endpoint:       endpoint,
		HTTPMethod:     method,
		RequestData:    request,
		ResponseData:   response,
		StatusCode:     statusCode,
		ResponseTimeMs: &rt,
		ServiceFrom:    DefaultServiceName,
		ServiceTo:      serviceTo,
		Timestamp:      time.Now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WarnCtx(ctx, "failed to log outbound call to %s: %v", serviceTo, err)
	}
}
