// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// GroupHistory is a group together with everything recorded in it.
type GroupHistory struct {
	Group     *models.Group
	Expenses  []models.Expense
	Transfers []models.BalanceTransfer
}

// RemovalPlan decides, from the group's current history, which transfer to
// record when a member leaves. A nil transfer records nothing and an error
// cancels the removal.
type RemovalPlan func(history GroupHistory) (*models.BalanceTransfer, error)

// Store defines the persistence operations of the ledger.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer. Every method that changes more than
// one row does so in a single transaction.
type Store interface {
	// CreateGroup persists a new group. The store fills in missing group and
	// member IDs and CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup replaces the name and member list of an existing group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and everything recorded in it.
	DeleteGroup(ctx context.Context, groupID string) error

	// RemoveMember loads the group's history, lets plan pick the transfer to
	// record, then drops the member. All three happen in one transaction
	// that excludes concurrent writers to the group.
	RemoveMember(ctx context.Context, groupID, memberID string, plan RemovalPlan) error

	// CreateExpense persists a new expense with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense fully replaces an existing expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// MarkExpensePaid sets the paid flag of an expense.
	MarkExpensePaid(ctx context.Context, expenseID string) error

	// DeleteExpense removes an expense.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup retrieves a group's expenses in date order.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreateTransfer persists a balance transfer with its adjustments.
	CreateTransfer(ctx context.Context, transfer *models.BalanceTransfer) error

	// ListTransfersByGroup retrieves a group's transfers in date order.
	ListTransfersByGroup(ctx context.Context, groupID string) ([]models.BalanceTransfer, error)

	// GetSettings returns the stored settings, or ErrNotFound if none were
	// saved yet.
	GetSettings(ctx context.Context) (*models.Settings, error)

	// SaveSettings stores the settings.
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// Close releases any resources held by the store.
	Close() error
}
