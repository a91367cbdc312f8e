package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/internal/metrics"
	"github.com/molodeztom/expense-splitting-app/internal/storage"
	"github.com/molodeztom/expense-splitting-app/pkg/api"
	"github.com/molodeztom/expense-splitting-app/pkg/api/apiconnect"
	"github.com/molodeztom/expense-splitting-app/pkg/currency"
)

var _ apiconnect.SettingsServiceHandler = (*SettingsService)(nil)

// SettingsService implements the Connect SettingsService
type SettingsService struct {
	ledger
}

// NewSettingsService creates a new SettingsService. defaultCurrency is
// reported until settings are saved.
func NewSettingsService(store storage.Store, m *metrics.Metrics, defaultCurrency string) *SettingsService {
	return &SettingsService{ledger: newLedger(store, m, defaultCurrency)}
}

func (s *SettingsService) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	settings, err := s.settings(ctx)
	if err != nil {
		slog.Error("GetSettings failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSettingsResponse{Settings: settings}), nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error) {
	settings := req.Msg.Settings
	slog.Info("UpdateSettings request received", "currency", settings.Currency)

	settings.Currency = strings.ToUpper(strings.TrimSpace(settings.Currency))
	if settings.Currency == "" {
		settings.Currency = s.defaultCurrency
	}
	if err := currency.Validate(settings.Currency); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	settings.UserName = strings.TrimSpace(settings.UserName)
	settings.UserEmail = strings.TrimSpace(settings.UserEmail)

	if err := s.store.SaveSettings(ctx, &settings); err != nil {
		slog.Error("UpdateSettings failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settings saved", "currency", settings.Currency)

	return connect.NewResponse(&api.UpdateSettingsResponse{Settings: &settings}), nil
}
