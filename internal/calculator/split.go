// Package calculator implements the ledger engine: split computation,
// balance aggregation, settlement planning and member-removal redistribution.
// All functions are pure and safe for concurrent use on distinct inputs.
package calculator

import (
	"fmt"
	"math"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// Epsilon is the one-cent tolerance used for every comparison of amounts.
const Epsilon = 0.01

// nearlyEqual reports whether a and b differ by no more than Epsilon.
func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Share assigns a value to one member: a percentage for PercentageSplit, an
// amount for CustomSplit.
type Share struct {
	MemberID string
	Value    float64
}

// SplitPolicy describes how an expense amount is divided. It is one of
// EqualSplit, PercentageSplit or CustomSplit.
type SplitPolicy interface {
	Method() models.SplitMethod
	isSplitPolicy()
}

// EqualSplit divides the amount evenly across all group members.
type EqualSplit struct{}

// PercentageSplit gives each member a percentage of the amount.
// Percentages must lie in [0, 100] and sum to 100.
type PercentageSplit struct {
	Shares []Share
}

// CustomSplit gives each member an explicit amount.
// Amounts must be non-negative and sum to the expense amount.
type CustomSplit struct {
	Shares []Share
}

func (EqualSplit) Method() models.SplitMethod      { return models.SplitEqual }
func (PercentageSplit) Method() models.SplitMethod { return models.SplitPercentage }
func (CustomSplit) Method() models.SplitMethod     { return models.SplitCustom }

func (EqualSplit) isSplitPolicy()      {}
func (PercentageSplit) isSplitPolicy() {}
func (CustomSplit) isSplitPolicy()     {}

// PolicyFor builds the policy for a split method tag. Shares are ignored for
// equal splits.
func PolicyFor(method models.SplitMethod, shares []Share) (SplitPolicy, error) {
	switch method {
	case models.SplitEqual:
		return EqualSplit{}, nil
	case models.SplitPercentage:
		return PercentageSplit{Shares: shares}, nil
	case models.SplitCustom:
		return CustomSplit{Shares: shares}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split method %q", ErrInvalidSplit, method)
	}
}

// ComputeSplits divides amount among members according to policy.
// One split is returned per member, in member order. Members without a share
// in a percentage or custom policy get zero.
//
// Equal splits use full float precision and are not reconciled, so their sum
// may differ from amount by a fraction of a cent.
func ComputeSplits(amount float64, members []models.Member, policy SplitPolicy) ([]models.Split, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidSplit, amount)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: group has no members", ErrInvalidSplit)
	}

	switch p := policy.(type) {
	case EqualSplit:
		return equalSplits(amount, members), nil
	case PercentageSplit:
		return percentageSplits(amount, members, p.Shares)
	case CustomSplit:
		return customSplits(amount, members, p.Shares)
	default:
		return nil, fmt.Errorf("%w: unsupported split policy %T", ErrInvalidSplit, policy)
	}
}

func equalSplits(amount float64, members []models.Member) []models.Split {
	share := amount / float64(len(members))
	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{UserID: m.ID, Amount: share}
	}
	return splits
}

func percentageSplits(amount float64, members []models.Member, shares []Share) ([]models.Split, error) {
	values, err := shareValues(members, shares)
	if err != nil {
		return nil, err
	}

	var totalPercentage float64
	splits := make([]models.Split, len(members))
	for i, m := range members {
		pct := values[m.ID]
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("%w: percentage for %s must be between 0 and 100, got %v", ErrInvalidSplit, m.ID, pct)
		}
		totalPercentage += pct
		splits[i] = models.Split{UserID: m.ID, Amount: amount * pct / 100}
	}

	if !nearlyEqual(totalPercentage, 100) {
		return nil, fmt.Errorf("%w: percentages sum to %.2f, want 100", ErrInvalidSplit, totalPercentage)
	}
	return splits, nil
}

func customSplits(amount float64, members []models.Member, shares []Share) ([]models.Split, error) {
	values, err := shareValues(members, shares)
	if err != nil {
		return nil, err
	}

	var totalAmount float64
	splits := make([]models.Split, len(members))
	for i, m := range members {
		v := values[m.ID]
		if v < 0 {
			return nil, fmt.Errorf("%w: amount for %s cannot be negative, got %v", ErrInvalidSplit, m.ID, v)
		}
		totalAmount += v
		splits[i] = models.Split{UserID: m.ID, Amount: v}
	}

	if !nearlyEqual(totalAmount, amount) {
		return nil, fmt.Errorf("%w: amounts sum to %.2f, want %.2f", ErrInvalidSplit, totalAmount, amount)
	}
	return splits, nil
}

// shareValues indexes shares by member, rejecting duplicates and shares for
// people outside the group.
func shareValues(members []models.Member, shares []Share) (map[string]float64, error) {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}

	values := make(map[string]float64, len(shares))
	for _, s := range shares {
		if !known[s.MemberID] {
			return nil, fmt.Errorf("%w: share for %w %q", ErrInvalidSplit, ErrUnknownMember, s.MemberID)
		}
		if _, dup := values[s.MemberID]; dup {
			return nil, fmt.Errorf("%w: duplicate share for %q", ErrInvalidSplit, s.MemberID)
		}
		values[s.MemberID] = s.Value
	}
	return values, nil
}
