package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/molodeztom/expense-splitting-app/internal/models"
	"github.com/molodeztom/expense-splitting-app/internal/storage"
)

const expenseColumns = "id, group_id, description, amount, category, paid_by, split_method, date, is_paid, is_settlement, is_redistribution"

// CreateExpense persists a new expense and its splits.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}
	if expense.Category == "" {
		expense.Category = models.CategoryOther
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockGroup(ctx, tx, expense.GroupID, false); err != nil {
			return err
		}

		_, err := s.exec(ctx, tx,
			"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			expense.ID, expense.GroupID, expense.Description, expense.Amount, string(expense.Category),
			expense.PaidBy, string(expense.SplitMethod), expense.Date,
			expense.IsPaid, expense.IsSettlement, expense.IsRedistribution,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
		return s.insertSplits(ctx, tx, expense.ID, expense.Splits)
	})
}

func (s *Store) insertSplits(ctx context.Context, tx *sql.Tx, expenseID string, splits []models.Split) error {
	for i, split := range splits {
		_, err := s.exec(ctx, tx,
			"INSERT INTO expense_splits (expense_id, position, user_id, amount) VALUES (?, ?, ?, ?)",
			expenseID, i, split.UserID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (models.Expense, error) {
	var (
		e        models.Expense
		category string
		method   string
	)
	err := row.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount, &category, &e.PaidBy, &method,
		&e.Date, &e.IsPaid, &e.IsSettlement, &e.IsRedistribution)
	e.Category = models.Category(category)
	e.SplitMethod = models.SplitMethod(method)
	return e, err
}

// GetExpense retrieves an expense by ID with its splits.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(s.queryRow(ctx, s.db,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.query(ctx, s.db,
		"SELECT user_id, amount FROM expense_splits WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var split models.Split
		if err := rows.Scan(&split.UserID, &split.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		e.Splits = append(e.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return &e, nil
}

// UpdateExpense replaces an existing expense and all of its splits.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockExpenseGroup(ctx, tx, expense.ID); err != nil {
			return err
		}

		res, err := s.exec(ctx, tx,
			`UPDATE expenses SET description = ?, amount = ?, category = ?, paid_by = ?, split_method = ?,
			 date = ?, is_paid = ?, is_settlement = ?, is_redistribution = ? WHERE id = ?`,
			expense.Description, expense.Amount, string(expense.Category), expense.PaidBy,
			string(expense.SplitMethod), expense.Date, expense.IsPaid, expense.IsSettlement,
			expense.IsRedistribution, expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		if err := requireRow(res, "expense", expense.ID); err != nil {
			return err
		}

		if _, err := s.exec(ctx, tx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to clear splits: %w", err)
		}
		return s.insertSplits(ctx, tx, expense.ID, expense.Splits)
	})
}

// MarkExpensePaid sets is_paid on an expense.
func (s *Store) MarkExpensePaid(ctx context.Context, expenseID string) error {
	res, err := s.exec(ctx, s.db, "UPDATE expenses SET is_paid = ? WHERE id = ?", true, expenseID)
	if err != nil {
		return fmt.Errorf("failed to mark expense paid: %w", err)
	}
	return requireRow(res, "expense", expenseID)
}

// DeleteExpense removes an expense; its splits cascade.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockExpenseGroup(ctx, tx, expenseID); err != nil {
			return err
		}

		res, err := s.exec(ctx, tx, "DELETE FROM expenses WHERE id = ?", expenseID)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return requireRow(res, "expense", expenseID)
	})
}

// lockExpenseGroup takes a shared lock on the group an expense belongs to.
func (s *Store) lockExpenseGroup(ctx context.Context, tx *sql.Tx, expenseID string) error {
	var groupID string
	err := s.queryRow(ctx, tx, "SELECT group_id FROM expenses WHERE id = ?", expenseID).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get expense group: %w", err)
	}
	return s.lockGroup(ctx, tx, groupID, false)
}

// ListExpensesByGroup retrieves all expenses of a group, oldest first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.listExpenses(ctx, s.db, groupID)
}

func (s *Store) listExpenses(ctx context.Context, q dbtx, groupID string) ([]models.Expense, error) {
	rows, err := s.query(ctx, q,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY date, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Load all splits of the group in one query
	splitRows, err := s.query(ctx, q,
		`SELECT s.expense_id, s.user_id, s.amount FROM expense_splits s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ? ORDER BY s.expense_id, s.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits by group: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID string
		var split models.Split
		if err := splitRows.Scan(&expenseID, &split.UserID, &split.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return expenses, nil
}
