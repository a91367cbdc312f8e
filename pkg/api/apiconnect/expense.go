package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = PackageName + ".ExpenseService"

// Fully-qualified procedure names of the ExpenseService RPCs.
const (
	ExpenseServiceCalculateSplitProcedure  = "/" + ExpenseServiceName + "/CalculateSplit"
	ExpenseServiceCreateExpenseProcedure   = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceGetExpenseProcedure      = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseServiceUpdateExpenseProcedure   = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure   = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServiceListExpensesProcedure    = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceMarkExpensePaidProcedure = "/" + ExpenseServiceName + "/MarkExpensePaid"
	ExpenseServiceRecordPaymentProcedure   = "/" + ExpenseServiceName + "/RecordPayment"
	ExpenseServiceListTransfersProcedure   = "/" + ExpenseServiceName + "/ListTransfers"
)

// ExpenseServiceHandler is implemented by the server side of ExpenseService.
type ExpenseServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	MarkExpensePaid(context.Context, *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListTransfers(context.Context, *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		ExpenseServiceCalculateSplitProcedure:  connect.NewUnaryHandler(ExpenseServiceCalculateSplitProcedure, svc.CalculateSplit, opts...),
		ExpenseServiceCreateExpenseProcedure:   connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceGetExpenseProcedure:      connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceUpdateExpenseProcedure:   connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure:   connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		ExpenseServiceListExpensesProcedure:    connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServiceMarkExpensePaidProcedure: connect.NewUnaryHandler(ExpenseServiceMarkExpensePaidProcedure, svc.MarkExpensePaid, opts...),
		ExpenseServiceRecordPaymentProcedure:   connect.NewUnaryHandler(ExpenseServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		ExpenseServiceListTransfersProcedure:   connect.NewUnaryHandler(ExpenseServiceListTransfersProcedure, svc.ListTransfers, opts...),
	}
	return "/" + ExpenseServiceName + "/", routeHandler(handlers)
}

// ExpenseServiceClient is a client for the ExpenseService service.
type ExpenseServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	MarkExpensePaid(context.Context, *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListTransfers(context.Context, *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error)
}

// NewExpenseServiceClient constructs a client for ExpenseService.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		calculateSplit:  connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL+ExpenseServiceCalculateSplitProcedure, opts...),
		createExpense:   connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:      connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		updateExpense:   connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense:   connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		listExpenses:    connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		markExpensePaid: connect.NewClient[api.MarkExpensePaidRequest, api.MarkExpensePaidResponse](httpClient, baseURL+ExpenseServiceMarkExpensePaidProcedure, opts...),
		recordPayment:   connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+ExpenseServiceRecordPaymentProcedure, opts...),
		listTransfers:   connect.NewClient[api.ListTransfersRequest, api.ListTransfersResponse](httpClient, baseURL+ExpenseServiceListTransfersProcedure, opts...),
	}
}

type expenseServiceClient struct {
	calculateSplit  *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	createExpense   *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense      *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	updateExpense   *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense   *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	listExpenses    *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	markExpensePaid *connect.Client[api.MarkExpensePaidRequest, api.MarkExpensePaidResponse]
	recordPayment   *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	listTransfers   *connect.Client[api.ListTransfersRequest, api.ListTransfersResponse]
}

func (c *expenseServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) MarkExpensePaid(ctx context.Context, req *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error) {
	return c.markExpensePaid.CallUnary(ctx, req)
}

func (c *expenseServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListTransfers(ctx context.Context, req *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error) {
	return c.listTransfers.CallUnary(ctx, req)
}
