// Package leave implements the leave request workflow and the per-year
// balance ledger. An approval locks the balance row and decrements it in
// the same transaction as the status transition, so concurrent approvals
// can never spend the same days twice.
package leave

import (
	"context"
	"strings"
	"time"

	"github.com/workforcehq/records-backend-go/internal/domain/audit"
	"github.com/workforcehq/records-backend-go/internal/domain/auth"
	"github.com/workforcehq/records-backend-go/internal/domain/leave"
	"github.com/workforcehq/records-backend-go/internal/pkg/validator"
	"github.com/workforcehq/records-backend-go/internal/repository/postgresql"
	auditservice "github.com/workforcehq/records-backend-go/internal/service/audit"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

type leaveService struct {
	tx              postgresql.Transactor
	balanceRepo     leave.BalanceRepository
	requestRepo     leave.RequestRepository
	recorder        *auditservice.Recorder
	reasonMinLength int
}

func NewLeaveService(
	tx postgresql.Transactor,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	reasonMinLength int,
	recorder *auditservice.Recorder,
) leave.LeaveService {
	return &leaveService{
		tx:              tx,
		balanceRepo:     balanceRepo,
		requestRepo:     requestRepo,
		recorder:        recorder,
		reasonMinLength: reasonMinLength,
	}
}

// FileRequest implements leave.LeaveService. The day count is inclusive of
// both endpoints; a single-day request is one day.
func (s *leaveService) FileRequest(ctx context.Context, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if p.EmployeeID == nil {
		return leave.RequestResponse{}, leave.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)
	if endDate.Before(startDate) {
		return leave.RequestResponse{}, leave.ErrInvalidRange
	}
	if len(strings.TrimSpace(req.Reason)) < s.reasonMinLength {
		return leave.RequestResponse{}, leave.ErrReasonTooShort
	}

	days := decimal.NewFromInt(int64(endDate.Sub(startDate).Hours()/24) + 1)

	created, err := s.requestRepo.Create(ctx, leave.Request{
		EmployeeID: *p.EmployeeID,
		LeaveType:  leave.Type(req.LeaveType),
		StartDate:  startDate,
		EndDate:    endDate,
		Days:       days,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     leave.RequestStatusPending,
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionLeaveFile, "leave_request", created.ID,
		nil, leave.ToRequestResponse(created), chimiddleware.GetReqID(ctx), "")

	return leave.ToRequestResponse(created), nil
}

// Decide implements leave.LeaveService. Approval checks and consumes the
// balance under a row lock inside one transaction; unpaid leave bypasses
// the ledger entirely.
func (s *leaveService) Decide(ctx context.Context, requestID string, req leave.DecideRequest) (leave.RequestResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	status := map[leave.Outcome]leave.RequestStatus{
		leave.OutcomeApproved:  leave.RequestStatusApproved,
		leave.OutcomeRejected:  leave.RequestStatusRejected,
		leave.OutcomeCancelled: leave.RequestStatusCancelled,
	}[leave.Outcome(req.Outcome)]

	var before leave.Request
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		before, err = s.requestRepo.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if before.Status != leave.RequestStatusPending {
			return leave.ErrNotPending
		}

		// only cancellation may touch the approver's own request
		ownRequest := p.EmployeeID != nil && *p.EmployeeID == before.EmployeeID
		if ownRequest && leave.Outcome(req.Outcome) != leave.OutcomeCancelled {
			return leave.ErrUnauthorized
		}

		if status == leave.RequestStatusApproved && before.LeaveType != leave.TypeUnpaid {
			balance, err := s.balanceRepo.GetForUpdate(txCtx, before.EmployeeID, before.LeaveType, before.StartDate.Year())
			if err != nil {
				return err
			}
			if balance.RemainingDays.LessThan(before.Days) {
				return leave.ErrInsufficientBalance
			}
			if err := s.balanceRepo.Consume(txCtx, balance.ID, before.Days); err != nil {
				return err
			}
		}

		return s.requestRepo.UpdateStatus(txCtx, leave.DecisionUpdate{
			ID:         requestID,
			Status:     status,
			ApproverID: p.UserID,
			Comments:   req.Comments,
			DecidedAt:  time.Now(),
		})
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	decided, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionLeaveDecide, "leave_request", requestID,
		leave.ToRequestResponse(before), leave.ToRequestResponse(decided), chimiddleware.GetReqID(ctx), "")

	return leave.ToRequestResponse(decided), nil
}

// GetMyRequests implements leave.LeaveService.
func (s *leaveService) GetMyRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if p.EmployeeID == nil {
		return nil, 0, leave.ErrUnauthorized
	}

	requests, total, err := s.requestRepo.ListByEmployee(ctx, *p.EmployeeID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toRequestResponses(requests), total, nil
}

// GetPending implements leave.LeaveService.
func (s *leaveService) GetPending(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, int64, error) {
	requests, total, err := s.requestRepo.ListPending(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toRequestResponses(requests), total, nil
}

// GetMyBalances implements leave.LeaveService.
func (s *leaveService) GetMyBalances(ctx context.Context, year int) ([]leave.BalanceResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if p.EmployeeID == nil {
		return nil, leave.ErrUnauthorized
	}
	if year == 0 {
		year = time.Now().Year()
	}

	balances, err := s.balanceRepo.ListByEmployee(ctx, *p.EmployeeID, year)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.ToBalanceResponse(b))
	}
	return responses, nil
}

// SetBalance implements leave.LeaveService.
func (s *leaveService) SetBalance(ctx context.Context, req leave.SetBalanceRequest) (leave.BalanceResponse, error) {
	p, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	total, _ := decimal.NewFromString(req.TotalDays)
	balance, err := s.balanceRepo.Upsert(ctx, leave.Balance{
		EmployeeID:    req.EmployeeID,
		LeaveType:     leave.Type(req.LeaveType),
		Year:          req.Year,
		TotalDays:     total,
		UsedDays:      decimal.Zero,
		RemainingDays: total,
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	s.recorder.Record(ctx, &p.UserID, audit.ActionLeaveBalanceSet, "leave_balance", balance.ID,
		nil, leave.ToBalanceResponse(balance), chimiddleware.GetReqID(ctx), "")

	return leave.ToBalanceResponse(balance), nil
}

func toRequestResponses(requests []leave.Request) []leave.RequestResponse {
	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToRequestResponse(r))
	}
	return responses
}
