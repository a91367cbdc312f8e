// Package service implements the ledger's Connect RPC services on top of
// the storage layer and the calculator engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/internal/calculator"
	"github.com/molodeztom/expense-splitting-app/internal/metrics"
	"github.com/molodeztom/expense-splitting-app/internal/models"
	"github.com/molodeztom/expense-splitting-app/internal/storage"
)

// ledger holds what every service needs.
type ledger struct {
	store   storage.Store
	metrics *metrics.Metrics

	// defaultCurrency applies until settings are saved.
	defaultCurrency string
}

func newLedger(store storage.Store, m *metrics.Metrics, defaultCurrency string) ledger {
	if m == nil {
		m = metrics.New()
	}
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return ledger{store: store, metrics: m, defaultCurrency: defaultCurrency}
}

// snapshot is a group with its full history and derived balances.
type snapshot struct {
	group     *models.Group
	expenses  []models.Expense
	transfers []models.BalanceTransfer
	balances  calculator.Balances
}

// load reads a group's history and folds it into balances.
func (l ledger) load(ctx context.Context, groupID string) (*snapshot, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := l.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	transfers, err := l.store.ListTransfersByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return newSnapshot(storage.GroupHistory{Group: group, Expenses: expenses, Transfers: transfers}), nil
}

func newSnapshot(history storage.GroupHistory) *snapshot {
	group := history.Group

	// Records that still name removed members are expected after removals.
	for _, ref := range calculator.UnknownReferences(*group, history.Expenses, history.Transfers...) {
		slog.Debug("Ignoring reference outside group", "group_id", group.ID, "detail", ref)
	}

	return &snapshot{
		group:     group,
		expenses:  history.Expenses,
		transfers: history.Transfers,
		balances:  calculator.ComputeBalances(*group, history.Expenses, history.Transfers...),
	}
}

// settings returns the saved settings or the configured defaults.
func (l ledger) settings(ctx context.Context) (*models.Settings, error) {
	settings, err := l.store.GetSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.Settings{Currency: l.defaultCurrency}, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// currency returns the display currency, falling back to the default when
// settings cannot be read.
func (l ledger) currency(ctx context.Context) string {
	settings, err := l.settings(ctx)
	if err != nil {
		slog.Warn("Failed to load settings, using default currency", "error", err)
		return l.defaultCurrency
	}
	return settings.Currency
}

// invalidArgument builds a CodeInvalidArgument error for malformed requests.
func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// toConnectError maps storage and calculator errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, calculator.ErrBalanceNotSettled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, calculator.ErrInvalidSplit),
		errors.Is(err, calculator.ErrUnknownMember),
		errors.Is(err, calculator.ErrCreatorRequired):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// memberOf looks up a member, reporting unknown IDs as invalid input.
func memberOf(group *models.Group, memberID, role string) (models.Member, error) {
	m, ok := group.Member(memberID)
	if !ok {
		return models.Member{}, fmt.Errorf("%s %q: %w", role, memberID, calculator.ErrUnknownMember)
	}
	return m, nil
}

func memberNotFound(memberID string) error {
	return fmt.Errorf("member %q: %w", memberID, storage.ErrNotFound)
}
