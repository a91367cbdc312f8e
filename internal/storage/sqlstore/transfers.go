package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// CreateTransfer persists a new balance transfer and its adjustments.
func (s *Store) CreateTransfer(ctx context.Context, transfer *models.BalanceTransfer) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockGroup(ctx, tx, transfer.GroupID, false); err != nil {
			return err
		}
		return s.insertTransfer(ctx, tx, transfer)
	})
}

func (s *Store) insertTransfer(ctx context.Context, tx *sql.Tx, transfer *models.BalanceTransfer) error {
	// Generate ID if not set
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	if transfer.Date == 0 {
		transfer.Date = time.Now().Unix()
	}

	_, err := s.exec(ctx, tx,
		`INSERT INTO transfers (id, group_id, kind, from_id, amount, description, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transfer.ID, transfer.GroupID, string(transfer.Kind), transfer.FromID,
		transfer.Amount, transfer.Description, transfer.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	for i, adj := range transfer.Adjustments {
		_, err := s.exec(ctx, tx,
			"INSERT INTO transfer_adjustments (transfer_id, position, user_id, amount) VALUES (?, ?, ?, ?)",
			transfer.ID, i, adj.UserID, adj.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transfer adjustment: %w", err)
		}
	}

	return nil
}

// ListTransfersByGroup retrieves all transfers for a group, oldest first.
func (s *Store) ListTransfersByGroup(ctx context.Context, groupID string) ([]models.BalanceTransfer, error) {
	return s.listTransfers(ctx, s.db, groupID)
}

func (s *Store) listTransfers(ctx context.Context, q dbtx, groupID string) ([]models.BalanceTransfer, error) {
	rows, err := s.query(ctx, q,
		`SELECT id, group_id, kind, from_id, amount, description, date
		 FROM transfers WHERE group_id = ? ORDER BY date, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers by group: %w", err)
	}
	defer rows.Close()

	var transfers []models.BalanceTransfer
	index := make(map[string]int)
	for rows.Next() {
		var t models.BalanceTransfer
		var kind string
		if err := rows.Scan(&t.ID, &t.GroupID, &kind, &t.FromID, &t.Amount, &t.Description, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		t.Kind = models.TransferKind(kind)
		index[t.ID] = len(transfers)
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	adjRows, err := s.query(ctx, q,
		`SELECT a.transfer_id, a.user_id, a.amount FROM transfer_adjustments a
		 JOIN transfers t ON t.id = a.transfer_id
		 WHERE t.group_id = ? ORDER BY a.transfer_id, a.position`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer adjustments: %w", err)
	}
	defer adjRows.Close()

	for adjRows.Next() {
		var transferID string
		var adj models.Split
		if err := adjRows.Scan(&transferID, &adj.UserID, &adj.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan transfer adjustment: %w", err)
		}
		if i, ok := index[transferID]; ok {
			transfers[i].Adjustments = append(transfers[i].Adjustments, adj)
		}
	}
	if err := adjRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfer adjustments: %w", err)
	}

	return transfers, nil
}
