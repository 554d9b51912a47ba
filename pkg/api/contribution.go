package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// ContributionServiceName is the fully-qualified name of the ContributionService.
const ContributionServiceName = "groupledger.v1.ContributionService"

// Procedure names of the ContributionService.
const (
	ContributionServiceGetDueSummaryProcedure          = "/" + ContributionServiceName + "/GetDueSummary"
	ContributionServiceRecordPaymentProcedure          = "/" + ContributionServiceName + "/RecordPayment"
	ContributionServiceRevertPaymentProcedure          = "/" + ContributionServiceName + "/RevertPayment"
	ContributionServiceSetAuthoritativeStatusProcedure = "/" + ContributionServiceName + "/SetAuthoritativeStatus"
	ContributionServiceListPaymentsProcedure           = "/" + ContributionServiceName + "/ListPayments"
	ContributionServiceIssueLoanProcedure              = "/" + ContributionServiceName + "/IssueLoan"
	ContributionServiceRecordExpenseProcedure          = "/" + ContributionServiceName + "/RecordExpense"
	ContributionServiceListCashMovementsProcedure      = "/" + ContributionServiceName + "/ListCashMovements"
)

// ContributionServiceHandler computes dues and records payments and cash movements.
type ContributionServiceHandler interface {
	GetDueSummary(context.Context, *connect.Request[GetDueSummaryRequest]) (*connect.Response[GetDueSummaryResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	RevertPayment(context.Context, *connect.Request[RevertPaymentRequest]) (*connect.Response[RevertPaymentResponse], error)
	SetAuthoritativeStatus(context.Context, *connect.Request[SetAuthoritativeStatusRequest]) (*connect.Response[SetAuthoritativeStatusResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	IssueLoan(context.Context, *connect.Request[IssueLoanRequest]) (*connect.Response[IssueLoanResponse], error)
	RecordExpense(context.Context, *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error)
	ListCashMovements(context.Context, *connect.Request[ListCashMovementsRequest]) (*connect.Response[ListCashMovementsResponse], error)
}

// NewContributionServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewContributionServiceHandler(svc ContributionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getDueSummary := connect.NewUnaryHandler(ContributionServiceGetDueSummaryProcedure, svc.GetDueSummary, opts...)
	recordPayment := connect.NewUnaryHandler(ContributionServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	revertPayment := connect.NewUnaryHandler(ContributionServiceRevertPaymentProcedure, svc.RevertPayment, opts...)
	setAuthoritativeStatus := connect.NewUnaryHandler(ContributionServiceSetAuthoritativeStatusProcedure, svc.SetAuthoritativeStatus, opts...)
	listPayments := connect.NewUnaryHandler(ContributionServiceListPaymentsProcedure, svc.ListPayments, opts...)
	issueLoan := connect.NewUnaryHandler(ContributionServiceIssueLoanProcedure, svc.IssueLoan, opts...)
	recordExpense := connect.NewUnaryHandler(ContributionServiceRecordExpenseProcedure, svc.RecordExpense, opts...)
	listCashMovements := connect.NewUnaryHandler(ContributionServiceListCashMovementsProcedure, svc.ListCashMovements, opts...)
	return "/" + ContributionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ContributionServiceGetDueSummaryProcedure:
			getDueSummary.ServeHTTP(w, r)
		case ContributionServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case ContributionServiceRevertPaymentProcedure:
			revertPayment.ServeHTTP(w, r)
		case ContributionServiceSetAuthoritativeStatusProcedure:
			setAuthoritativeStatus.ServeHTTP(w, r)
		case ContributionServiceListPaymentsProcedure:
			listPayments.ServeHTTP(w, r)
		case ContributionServiceIssueLoanProcedure:
			issueLoan.ServeHTTP(w, r)
		case ContributionServiceRecordExpenseProcedure:
			recordExpense.ServeHTTP(w, r)
		case ContributionServiceListCashMovementsProcedure:
			listCashMovements.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ContributionServiceClient calls a remote ContributionService.
type ContributionServiceClient interface {
	GetDueSummary(context.Context, *connect.Request[GetDueSummaryRequest]) (*connect.Response[GetDueSummaryResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	RevertPayment(context.Context, *connect.Request[RevertPaymentRequest]) (*connect.Response[RevertPaymentResponse], error)
	SetAuthoritativeStatus(context.Context, *connect.Request[SetAuthoritativeStatusRequest]) (*connect.Response[SetAuthoritativeStatusResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	IssueLoan(context.Context, *connect.Request[IssueLoanRequest]) (*connect.Response[IssueLoanResponse], error)
	RecordExpense(context.Context, *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error)
	ListCashMovements(context.Context, *connect.Request[ListCashMovementsRequest]) (*connect.Response[ListCashMovementsResponse], error)
}

// NewContributionServiceClient creates a client for the ContributionService served at baseURL.
func NewContributionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ContributionServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &contributionServiceClient{
		getDueSummary:          connect.NewClient[GetDueSummaryRequest, GetDueSummaryResponse](httpClient, baseURL+ContributionServiceGetDueSummaryProcedure, opts...),
		recordPayment:          connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+ContributionServiceRecordPaymentProcedure, opts...),
		revertPayment:          connect.NewClient[RevertPaymentRequest, RevertPaymentResponse](httpClient, baseURL+ContributionServiceRevertPaymentProcedure, opts...),
		setAuthoritativeStatus: connect.NewClient[SetAuthoritativeStatusRequest, SetAuthoritativeStatusResponse](httpClient, baseURL+ContributionServiceSetAuthoritativeStatusProcedure, opts...),
		listPayments:           connect.NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL+ContributionServiceListPaymentsProcedure, opts...),
		issueLoan:              connect.NewClient[IssueLoanRequest, IssueLoanResponse](httpClient, baseURL+ContributionServiceIssueLoanProcedure, opts...),
		recordExpense:          connect.NewClient[RecordExpenseRequest, RecordExpenseResponse](httpClient, baseURL+ContributionServiceRecordExpenseProcedure, opts...),
		listCashMovements:      connect.NewClient[ListCashMovementsRequest, ListCashMovementsResponse](httpClient, baseURL+ContributionServiceListCashMovementsProcedure, opts...),
	}
}

type contributionServiceClient struct {
	getDueSummary          *connect.Client[GetDueSummaryRequest, GetDueSummaryResponse]
	recordPayment          *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	revertPayment          *connect.Client[RevertPaymentRequest, RevertPaymentResponse]
	setAuthoritativeStatus *connect.Client[SetAuthoritativeStatusRequest, SetAuthoritativeStatusResponse]
	listPayments           *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	issueLoan              *connect.Client[IssueLoanRequest, IssueLoanResponse]
	recordExpense          *connect.Client[RecordExpenseRequest, RecordExpenseResponse]
	listCashMovements      *connect.Client[ListCashMovementsRequest, ListCashMovementsResponse]
}

func (c *contributionServiceClient) GetDueSummary(ctx context.Context, req *connect.Request[GetDueSummaryRequest]) (*connect.Response[GetDueSummaryResponse], error) {
	return c.getDueSummary.CallUnary(ctx, req)
}

func (c *contributionServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *contributionServiceClient) RevertPayment(ctx context.Context, req *connect.Request[RevertPaymentRequest]) (*connect.Response[RevertPaymentResponse], error) {
	return c.revertPayment.CallUnary(ctx, req)
}

func (c *contributionServiceClient) SetAuthoritativeStatus(ctx context.Context, req *connect.Request[SetAuthoritativeStatusRequest]) (*connect.Response[SetAuthoritativeStatusResponse], error) {
	return c.setAuthoritativeStatus.CallUnary(ctx, req)
}

func (c *contributionServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *contributionServiceClient) IssueLoan(ctx context.Context, req *connect.Request[IssueLoanRequest]) (*connect.Response[IssueLoanResponse], error) {
	return c.issueLoan.CallUnary(ctx, req)
}

func (c *contributionServiceClient) RecordExpense(ctx context.Context, req *connect.Request[RecordExpenseRequest]) (*connect.Response[RecordExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *contributionServiceClient) ListCashMovements(ctx context.Context, req *connect.Request[ListCashMovementsRequest]) (*connect.Response[ListCashMovementsResponse], error) {
	return c.listCashMovements.CallUnary(ctx, req)
}
