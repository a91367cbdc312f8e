package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/pkg/api"
)

// SettingsServiceName is the fully-qualified name of the SettingsService service.
const SettingsServiceName = PackageName + ".SettingsService"

// Fully-qualified procedure names of the SettingsService RPCs.
const (
	SettingsServiceGetSettingsProcedure    = "/" + SettingsServiceName + "/GetSettings"
	SettingsServiceUpdateSettingsProcedure = "/" + SettingsServiceName + "/UpdateSettings"
)

// SettingsServiceHandler is implemented by the server side of SettingsService.
type SettingsServiceHandler interface {
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error)
}

// NewSettingsServiceHandler builds an HTTP handler from the service implementation.
func NewSettingsServiceHandler(svc SettingsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		SettingsServiceGetSettingsProcedure:    connect.NewUnaryHandler(SettingsServiceGetSettingsProcedure, svc.GetSettings, opts...),
		SettingsServiceUpdateSettingsProcedure: connect.NewUnaryHandler(SettingsServiceUpdateSettingsProcedure, svc.UpdateSettings, opts...),
	}
	return "/" + SettingsServiceName + "/", routeHandler(handlers)
}

// SettingsServiceClient is a client for the SettingsService service.
type SettingsServiceClient interface {
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error)
}

// NewSettingsServiceClient constructs a client for SettingsService.
func NewSettingsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettingsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settingsServiceClient{
		getSettings:    connect.NewClient[api.GetSettingsRequest, api.GetSettingsResponse](httpClient, baseURL+SettingsServiceGetSettingsProcedure, opts...),
		updateSettings: connect.NewClient[api.UpdateSettingsRequest, api.UpdateSettingsResponse](httpClient, baseURL+SettingsServiceUpdateSettingsProcedure, opts...),
	}
}

type settingsServiceClient struct {
	getSettings    *connect.Client[api.GetSettingsRequest, api.GetSettingsResponse]
	updateSettings *connect.Client[api.UpdateSettingsRequest, api.UpdateSettingsResponse]
}

func (c *settingsServiceClient) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

func (c *settingsServiceClient) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error) {
	return c.updateSettings.CallUnary(ctx, req)
}
