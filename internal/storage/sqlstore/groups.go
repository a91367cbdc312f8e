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

// CreateGroup persists a new group with its members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	for i := range group.Members {
		if group.Members[i].ID == "" {
			group.Members[i].ID = uuid.New().String()
		}
	}
	if group.CreatedBy == "" && len(group.Members) > 0 {
		group.CreatedBy = group.Members[0].ID
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx,
			"INSERT INTO expense_groups (id, name, created_at, created_by) VALUES (?, ?, ?, ?)",
			group.ID, group.Name, group.CreatedAt, group.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return s.insertMembers(ctx, tx, group.ID, group.Members)
	})
}

func (s *Store) insertMembers(ctx context.Context, tx *sql.Tx, groupID string, members []models.Member) error {
	for i, m := range members {
		_, err := s.exec(ctx, tx,
			"INSERT INTO group_members (group_id, member_id, name, email, position) VALUES (?, ?, ?, ?, ?)",
			groupID, m.ID, m.Name, m.Email, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

// GetGroup retrieves a group by ID, including its members in order.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, s.db, groupID)
}

func (s *Store) getGroup(ctx context.Context, q dbtx, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.queryRow(ctx, q,
		"SELECT id, name, created_at, created_by FROM expense_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt, &group.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.listMembers(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

func (s *Store) listMembers(ctx context.Context, q dbtx, groupID string) ([]models.Member, error) {
	rows, err := s.query(ctx, q,
		"SELECT member_id, name, email FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// ListGroups retrieves all groups, oldest first.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT id, name, created_at, created_by FROM expense_groups ORDER BY created_at, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt, &group.CreatedBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.listMembers(ctx, s.db, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

// UpdateGroup replaces the name and members of an existing group.
func (s *Store) UpdateGroup(ctx context.Context, group *models.Group) error {
	for i := range group.Members {
		if group.Members[i].ID == "" {
			group.Members[i].ID = uuid.New().String()
		}
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			"UPDATE expense_groups SET name = ? WHERE id = ?",
			group.Name, group.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}
		if err := requireRow(res, "group", group.ID); err != nil {
			return err
		}

		if _, err := s.exec(ctx, tx, "DELETE FROM group_members WHERE group_id = ?", group.ID); err != nil {
			return fmt.Errorf("failed to clear members: %w", err)
		}
		return s.insertMembers(ctx, tx, group.ID, group.Members)
	})
}

// DeleteGroup removes a group. Members, expenses and transfers cascade.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.exec(ctx, s.db, "DELETE FROM expense_groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return requireRow(res, "group", groupID)
}

// RemoveMember plans and applies a member removal in one transaction. The
// group row stays locked from the first read until commit, so the plan sees
// every expense and transfer that exists when the member is dropped.
func (s *Store) RemoveMember(ctx context.Context, groupID, memberID string, plan storage.RemovalPlan) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockGroup(ctx, tx, groupID, true); err != nil {
			return err
		}

		history, err := s.groupHistory(ctx, tx, groupID)
		if err != nil {
			return err
		}
		transfer, err := plan(history)
		if err != nil {
			return err
		}

		res, err := s.exec(ctx, tx,
			"DELETE FROM group_members WHERE group_id = ? AND member_id = ?",
			groupID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if err := requireRow(res, "member", memberID); err != nil {
			return err
		}

		if transfer == nil {
			return nil
		}
		return s.insertTransfer(ctx, tx, transfer)
	})
}

func (s *Store) groupHistory(ctx context.Context, q dbtx, groupID string) (storage.GroupHistory, error) {
	group, err := s.getGroup(ctx, q, groupID)
	if err != nil {
		return storage.GroupHistory{}, err
	}
	expenses, err := s.listExpenses(ctx, q, groupID)
	if err != nil {
		return storage.GroupHistory{}, err
	}
	transfers, err := s.listTransfers(ctx, q, groupID)
	if err != nil {
		return storage.GroupHistory{}, err
	}
	return storage.GroupHistory{Group: group, Expenses: expenses, Transfers: transfers}, nil
}
