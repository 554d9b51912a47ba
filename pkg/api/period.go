package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// PeriodServiceName is the fully-qualified name of the PeriodService.
const PeriodServiceName = "groupledger.v1.PeriodService"

// Procedure names of the PeriodService.
const (
	PeriodServiceGetCurrentPeriodProcedure = "/" + PeriodServiceName + "/GetCurrentPeriod"
	PeriodServiceListPeriodsProcedure      = "/" + PeriodServiceName + "/ListPeriods"
	PeriodServiceClosePeriodProcedure      = "/" + PeriodServiceName + "/ClosePeriod"
	PeriodServiceReopenPeriodProcedure     = "/" + PeriodServiceName + "/ReopenPeriod"
	PeriodServicePreviewStandingProcedure  = "/" + PeriodServiceName + "/PreviewStanding"
)

// PeriodServiceHandler runs the period lifecycle.
type PeriodServiceHandler interface {
	GetCurrentPeriod(context.Context, *connect.Request[GetCurrentPeriodRequest]) (*connect.Response[GetCurrentPeriodResponse], error)
	ListPeriods(context.Context, *connect.Request[ListPeriodsRequest]) (*connect.Response[ListPeriodsResponse], error)
	ClosePeriod(context.Context, *connect.Request[ClosePeriodRequest]) (*connect.Response[ClosePeriodResponse], error)
	ReopenPeriod(context.Context, *connect.Request[ReopenPeriodRequest]) (*connect.Response[ReopenPeriodResponse], error)
	PreviewStanding(context.Context, *connect.Request[PreviewStandingRequest]) (*connect.Response[PreviewStandingResponse], error)
}

// NewPeriodServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewPeriodServiceHandler(svc PeriodServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getCurrentPeriod := connect.NewUnaryHandler(PeriodServiceGetCurrentPeriodProcedure, svc.GetCurrentPeriod, opts...)
	listPeriods := connect.NewUnaryHandler(PeriodServiceListPeriodsProcedure, svc.ListPeriods, opts...)
	closePeriod := connect.NewUnaryHandler(PeriodServiceClosePeriodProcedure, svc.ClosePeriod, opts...)
	reopenPeriod := connect.NewUnaryHandler(PeriodServiceReopenPeriodProcedure, svc.ReopenPeriod, opts...)
	previewStanding := connect.NewUnaryHandler(PeriodServicePreviewStandingProcedure, svc.PreviewStanding, opts...)
	return "/" + PeriodServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PeriodServiceGetCurrentPeriodProcedure:
			getCurrentPeriod.ServeHTTP(w, r)
		case PeriodServiceListPeriodsProcedure:
			listPeriods.ServeHTTP(w, r)
		case PeriodServiceClosePeriodProcedure:
			closePeriod.ServeHTTP(w, r)
		case PeriodServiceReopenPeriodProcedure:
			reopenPeriod.ServeHTTP(w, r)
		case PeriodServicePreviewStandingProcedure:
			previewStanding.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// PeriodServiceClient calls a remote PeriodService.
type PeriodServiceClient interface {
	GetCurrentPeriod(context.Context, *connect.Request[GetCurrentPeriodRequest]) (*connect.Response[GetCurrentPeriodResponse], error)
	ListPeriods(context.Context, *connect.Request[ListPeriodsRequest]) (*connect.Response[ListPeriodsResponse], error)
	ClosePeriod(context.Context, *connect.Request[ClosePeriodRequest]) (*connect.Response[ClosePeriodResponse], error)
	ReopenPeriod(context.Context, *connect.Request[ReopenPeriodRequest]) (*connect.Response[ReopenPeriodResponse], error)
	PreviewStanding(context.Context, *connect.Request[PreviewStandingRequest]) (*connect.Response[PreviewStandingResponse], error)
}

// NewPeriodServiceClient creates a client for the PeriodService served at baseURL.
func NewPeriodServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PeriodServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &periodServiceClient{
		getCurrentPeriod: connect.NewClient[GetCurrentPeriodRequest, GetCurrentPeriodResponse](httpClient, baseURL+PeriodServiceGetCurrentPeriodProcedure, opts...),
		listPeriods:      connect.NewClient[ListPeriodsRequest, ListPeriodsResponse](httpClient, baseURL+PeriodServiceListPeriodsProcedure, opts...),
		closePeriod:      connect.NewClient[ClosePeriodRequest, ClosePeriodResponse](httpClient, baseURL+PeriodServiceClosePeriodProcedure, opts...),
		reopenPeriod:     connect.NewClient[ReopenPeriodRequest, ReopenPeriodResponse](httpClient, baseURL+PeriodServiceReopenPeriodProcedure, opts...),
		previewStanding:  connect.NewClient[PreviewStandingRequest, PreviewStandingResponse](httpClient, baseURL+PeriodServicePreviewStandingProcedure, opts...),
	}
}

type periodServiceClient struct {
	getCurrentPeriod *connect.Client[GetCurrentPeriodRequest, GetCurrentPeriodResponse]
	listPeriods      *connect.Client[ListPeriodsRequest, ListPeriodsResponse]
	closePeriod      *connect.Client[ClosePeriodRequest, ClosePeriodResponse]
	reopenPeriod     *connect.Client[ReopenPeriodRequest, ReopenPeriodResponse]
	previewStanding  *connect.Client[PreviewStandingRequest, PreviewStandingResponse]
}

func (c *periodServiceClient) GetCurrentPeriod(ctx context.Context, req *connect.Request[GetCurrentPeriodRequest]) (*connect.Response[GetCurrentPeriodResponse], error) {
	return c.getCurrentPeriod.CallUnary(ctx, req)
}

func (c *periodServiceClient) ListPeriods(ctx context.Context, req *connect.Request[ListPeriodsRequest]) (*connect.Response[ListPeriodsResponse], error) {
	return c.listPeriods.CallUnary(ctx, req)
}

func (c *periodServiceClient) ClosePeriod(ctx context.Context, req *connect.Request[ClosePeriodRequest]) (*connect.Response[ClosePeriodResponse], error) {
	return c.closePeriod.CallUnary(ctx, req)
}

func (c *periodServiceClient) ReopenPeriod(ctx context.Context, req *connect.Request[ReopenPeriodRequest]) (*connect.Response[ReopenPeriodResponse], error) {
	return c.reopenPeriod.CallUnary(ctx, req)
}

func (c *periodServiceClient) PreviewStanding(ctx context.Context, req *connect.Request[PreviewStandingRequest]) (*connect.Response[PreviewStandingResponse], error) {
	return c.previewStanding.CallUnary(ctx, req)
}
