package leave

import (
	"context"
)

type LeaveService interface {
	FileRequest(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)
	Decide(ctx context.Context, requestID string, req DecideRequest) (RequestResponse, error)
	GetMyRequests(ctx context.Context, filter RequestFilter) ([]RequestResponse, int64, error)
	GetPending(ctx context.Context, filter RequestFilter) ([]RequestResponse, int64, error)
	GetMyBalances(ctx context.Context, year int) ([]BalanceResponse, error)
	SetBalance(ctx context.Context, req SetBalanceRequest) (BalanceResponse, error)
}
