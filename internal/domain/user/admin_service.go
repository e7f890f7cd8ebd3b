package user

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// ListCustomersRequest holds back-office customer listing filters.
type ListCustomersRequest struct {
	Search string `form:"search"`
	Active *bool  `form:"active"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// CustomerList is a page of customer accounts.
type CustomerList struct {
	Customers []User `json:"customers"`
	Total     int64  `json:"total"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

// ListCustomers returns non-staff accounts matching the filters.
func (s *Service) ListCustomers(ctx context.Context, req *ListCustomersRequest) (*CustomerList, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&User{}).Where("is_staff = ?", false)
	if req.Search != "" {
		term := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			term, term, term,
		)
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	var customers []User
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &CustomerList{Customers: customers, Total: total, Page: page, Limit: limit}, nil
}

// SetActive blocks or unblocks a customer account. Blocked accounts
// cannot log in; existing orders are untouched.
func (s *Service) SetActive(ctx context.Context, userID uint, active bool) (*User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsStaff {
		return nil, apperrors.ErrForbidden
	}

	if err := s.db.WithContext(ctx).Model(u).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update account state: %w", err)
	}
	u.IsActive = active

	s.log.WithFields(logrus.Fields{
		"user_id": u.ID,
		"active":  active,
	}).Info("Customer account state changed")

	return u, nil
}

// ExportCustomersCSV streams all non-staff accounts as CSV.
func (s *Service) ExportCustomersCSV(ctx context.Context, w io.Writer) error {
	var customers []User
	if err := s.db.WithContext(ctx).
		Where("is_staff = ?", false).
		Order("id ASC").
		Find(&customers).Error; err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "email", "first_name", "last_name", "phone", "active", "joined"}); err != nil {
		return err
	}
	for _, c := range customers {
		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Email,
			c.FirstName,
			c.LastName,
			c.Phone,
			strconv.FormatBool(c.IsActive),
			c.CreatedAt.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CountActiveCustomers reports the number of active non-staff accounts.
func (s *Service) CountActiveCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("is_staff = ? AND is_active = ?", false, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
