package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "settleup.v1.BillService"
)

// Procedure names for BillService, usable as HTTP routes and as values of
// Spec.Procedure in interceptors.
const (
	BillServiceCalculateProcedure        = "/settleup.v1.BillService/Calculate"
	BillServiceCreateBillProcedure       = "/settleup.v1.BillService/CreateBill"
	BillServiceGetBillProcedure          = "/settleup.v1.BillService/GetBill"
	BillServiceUpdateBillProcedure       = "/settleup.v1.BillService/UpdateBill"
	BillServiceDeleteBillProcedure       = "/settleup.v1.BillService/DeleteBill"
	BillServiceListBillsByGroupProcedure = "/settleup.v1.BillService/ListBillsByGroup"
	BillServiceCalculateBillProcedure    = "/settleup.v1.BillService/CalculateBill"
	BillServiceRecordSettlementProcedure = "/settleup.v1.BillService/RecordSettlement"
	BillServiceListSettlementsProcedure  = "/settleup.v1.BillService/ListSettlements"
	BillServiceDeleteSettlementProcedure = "/settleup.v1.BillService/DeleteSettlement"
)

// BillServiceHandler is implemented by the server side of BillService.
type BillServiceHandler interface {
	Calculate(context.Context, *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error)
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	UpdateBill(context.Context, *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
	ListBillsByGroup(context.Context, *connect.Request[ListBillsByGroupRequest]) (*connect.Response[ListBillsByGroupResponse], error)
	CalculateBill(context.Context, *connect.Request[CalculateBillRequest]) (*connect.Response[CalculateResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	routes := map[string]http.Handler{
		BillServiceCalculateProcedure:        connect.NewUnaryHandler(BillServiceCalculateProcedure, svc.Calculate, opts...),
		BillServiceCreateBillProcedure:       connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...),
		BillServiceGetBillProcedure:          connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceUpdateBillProcedure:       connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...),
		BillServiceDeleteBillProcedure:       connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceListBillsByGroupProcedure: connect.NewUnaryHandler(BillServiceListBillsByGroupProcedure, svc.ListBillsByGroup, opts...),
		BillServiceCalculateBillProcedure:    connect.NewUnaryHandler(BillServiceCalculateBillProcedure, svc.CalculateBill, opts...),
		BillServiceRecordSettlementProcedure: connect.NewUnaryHandler(BillServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
		BillServiceListSettlementsProcedure:  connect.NewUnaryHandler(BillServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		BillServiceDeleteSettlementProcedure: connect.NewUnaryHandler(BillServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...),
	}

	return "/" + BillServiceName + "/", serviceMux(routes)
}

// BillServiceClient is a client for settleup.v1.BillService.
type BillServiceClient struct {
	calculate        *connect.Client[CalculateRequest, CalculateResponse]
	createBill       *connect.Client[CreateBillRequest, CreateBillResponse]
	getBill          *connect.Client[GetBillRequest, GetBillResponse]
	updateBill       *connect.Client[UpdateBillRequest, UpdateBillResponse]
	deleteBill       *connect.Client[DeleteBillRequest, DeleteBillResponse]
	listBillsByGroup *connect.Client[ListBillsByGroupRequest, ListBillsByGroupResponse]
	calculateBill    *connect.Client[CalculateBillRequest, CalculateResponse]
	recordSettlement *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
	listSettlements  *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	deleteSettlement *connect.Client[DeleteSettlementRequest, DeleteSettlementResponse]
}

// NewBillServiceClient constructs a client for the BillService at baseURL
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)

	return &BillServiceClient{
		calculate:        connect.NewClient[CalculateRequest, CalculateResponse](httpClient, baseURL+BillServiceCalculateProcedure, opts...),
		createBill:       connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:          connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		updateBill:       connect.NewClient[UpdateBillRequest, UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		deleteBill:       connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		listBillsByGroup: connect.NewClient[ListBillsByGroupRequest, ListBillsByGroupResponse](httpClient, baseURL+BillServiceListBillsByGroupProcedure, opts...),
		calculateBill:    connect.NewClient[CalculateBillRequest, CalculateResponse](httpClient, baseURL+BillServiceCalculateBillProcedure, opts...),
		recordSettlement: connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](httpClient, baseURL+BillServiceRecordSettlementProcedure, opts...),
		listSettlements:  connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+BillServiceListSettlementsProcedure, opts...),
		deleteSettlement: connect.NewClient[DeleteSettlementRequest, DeleteSettlementResponse](httpClient, baseURL+BillServiceDeleteSettlementProcedure, opts...),
	}
}

func (c *BillServiceClient) Calculate(ctx context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateBill(ctx context.Context, req *connect.Request[UpdateBillRequest]) (*connect.Response[UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListBillsByGroup(ctx context.Context, req *connect.Request[ListBillsByGroupRequest]) (*connect.Response[ListBillsByGroupResponse], error) {
	return c.listBillsByGroup.CallUnary(ctx, req)
}

func (c *BillServiceClient) CalculateBill(ctx context.Context, req *connect.Request[CalculateBillRequest]) (*connect.Response[CalculateResponse], error) {
	return c.calculateBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}

// serviceMux dispatches on the exact procedure path.
func serviceMux(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
