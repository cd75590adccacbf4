// Package requisition implements the requisition store and the vendor
// assignment engine: sequential document numbering, immutability after
// creation, and splitting requisition lines across vendors.
package requisition

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"eel.in/erp/models"
	"eel.in/erp/pkg/docnum"
)

// maxNumberAttempts bounds retries when concurrent creations race on
// the same document number.
const maxNumberAttempts = 5

// createMu serializes number generation within this process. Across
// processes the unique constraint on requisition_number plus retry
// keeps numbers unique.
var createMu sync.Mutex

// Service carries requisition and vendor-assignment operations over one
// GORM connection.
type Service struct {
	db     *gorm.DB
	series docnum.Series
	now    func() time.Time
}

func NewService(db *gorm.DB, prefix string) *Service {
	return &Service{
		db:     db,
		series: docnum.Series{Prefix: prefix},
		now:    time.Now,
	}
}

// ItemInput is one requested line on a new requisition.
type ItemInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Remarks   string          `json:"remarks"`
}

// CreateRequisitionInput carries everything needed to create a
// requisition with its lines. CreatedBy comes from the authenticated
// caller, never from the request body.
type CreateRequisitionInput struct {
	Date      time.Time
	Remarks   string
	CreatedBy uuid.UUID
	Items     []ItemInput
}

// CreateRequisition persists a new requisition with a freshly generated
// number and its line items in one transaction. Lost races on the
// number are retried with a recomputed number.
func (s *Service) CreateRequisition(in CreateRequisitionInput) (*models.Requisition, error) {
	if len(in.Items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	for i, item := range in.Items {
		if item.ProductID == uuid.Nil {
			return nil, invalidItem(i, "product_id", "is required")
		}
		if !item.Quantity.IsPositive() {
			return nil, invalidItem(i, "quantity", "must be greater than zero")
		}
	}
	if err := s.checkUserExists(in.CreatedBy, "created_by"); err != nil {
		return nil, err
	}
	if err := s.checkProductsExist(in.Items); err != nil {
		return nil, err
	}

	createMu.Lock()
	defer createMu.Unlock()

	year := s.now().Year()
	var createdID uuid.UUID

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		req := models.Requisition{
			RequisitionDate: models.JSONDate(in.Date),
			Remarks:         in.Remarks,
			CreatedByID:     in.CreatedBy,
		}
		for _, item := range in.Items {
			req.Items = append(req.Items, models.RequisitionItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Remarks:   item.Remarks,
			})
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			last, err := s.lastNumber(tx, year)
			if err != nil {
				return err
			}
			number, err := s.series.Next(year, last)
			if err != nil {
				return err
			}
			req.RequisitionNumber = number
			return tx.Create(&req).Error
		})
		if err == nil {
			createdID = req.ID
			break
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		// Lost the race on the number; recompute and try again.
	}
	if createdID == uuid.Nil {
		return nil, fmt.Errorf("requisition number generation: retries exhausted for year %d", year)
	}

	return s.GetRequisition(createdID)
}

// lastNumber returns the highest persisted number in this year's
// series, or "" when none exists. Ordering by length before value keeps
// the comparison numeric once sequences grow past three digits.
func (s *Service) lastNumber(tx *gorm.DB, year int) (string, error) {
	var numbers []string
	err := tx.Model(&models.Requisition{}).
		Where("requisition_number LIKE ?", s.series.YearPrefix(year)+"%").
		Order("length(requisition_number) DESC, requisition_number DESC").
		Limit(1).
		Pluck("requisition_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// UpdateRequisitionInput carries the mutable requisition fields. The
// document number and the assignment flag are not reachable through
// this path.
type UpdateRequisitionInput struct {
	Date    *time.Time
	Remarks *string
}

// UpdateRequisition mutates date and remarks. Requisitions are locked
// for editing once a vendor assignment exists.
func (s *Service) UpdateRequisition(id uuid.UUID, in UpdateRequisitionInput) (*models.Requisition, error) {
	var req models.Requisition
	if err := s.db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "requisition"}
		}
		return nil, err
	}
	if req.IsAssigned {
		return nil, &ForbiddenError{
			Reason:  "Requisition cannot be modified",
			Message: "Requisitions are locked for editing once vendors are assigned",
		}
	}

	updates := map[string]interface{}{}
	if in.Date != nil {
		updates["requisition_date"] = models.JSONDate(*in.Date)
	}
	if in.Remarks != nil {
		updates["remarks"] = *in.Remarks
	}
	if len(updates) > 0 {
		if err := s.db.Model(&req).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetRequisition(id)
}

// DeleteRequisition always refuses: requisitions are permanent once
// created.
func (s *Service) DeleteRequisition(id uuid.UUID) error {
	return &ForbiddenError{
		Reason:  "Requisitions cannot be deleted",
		Message: "Once created, requisitions are permanent for audit purposes",
	}
}

// GetRequisition loads one requisition with its lines and creator.
func (s *Service) GetRequisition(id uuid.UUID) (*models.Requisition, error) {
	var req models.Requisition
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Preload("Items.Product").
		Preload("CreatedBy").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "requisition"}
		}
		return nil, err
	}
	return &req, nil
}

// ListRequisitions returns all requisitions, newest numbers first.
func (s *Service) ListRequisitions() ([]models.Requisition, error) {
	var reqs []models.Requisition
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Preload("Items.Product").
		Preload("CreatedBy").
		Order("length(requisition_number) DESC, requisition_number DESC").
		Find(&reqs).Error
	return reqs, err
}

// ItemsView is the nested read of a requisition's lines.
type ItemsView struct {
	RequisitionNumber string                   `json:"requisition_number"`
	TotalItems        int                      `json:"total_items"`
	Items             []models.RequisitionItem `json:"items"`
}

// ListItems returns the ordered line items of one requisition.
func (s *Service) ListItems(id uuid.UUID) (*ItemsView, error) {
	req, err := s.GetRequisition(id)
	if err != nil {
		return nil, err
	}
	items := req.Items
	if items == nil {
		items = []models.RequisitionItem{}
	}
	return &ItemsView{
		RequisitionNumber: req.RequisitionNumber,
		TotalItems:        len(items),
		Items:             items,
	}, nil
}

// AssignmentsView is the nested read of a requisition's vendor
// assignments.
type AssignmentsView struct {
	RequisitionNumber string                               `json:"requisition_number"`
	TotalAssignments  int                                  `json:"total_assignments"`
	Assignments       []models.VendorRequisitionAssignment `json:"assignments"`
}

// ListAssignments returns all vendor assignments of one requisition
// with nested items, newest first.
func (s *Service) ListAssignments(id uuid.UUID) (*AssignmentsView, error) {
	var req models.Requisition
	if err := s.db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "requisition"}
		}
		return nil, err
	}

	assignments := []models.VendorRequisitionAssignment{}
	err := s.db.
		Preload("Vendor").
		Preload("AssignedBy").
		Preload("Items").
		Preload("Items.Product").
		Where("requisition_id = ?", id).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return &AssignmentsView{
		RequisitionNumber: req.RequisitionNumber,
		TotalAssignments:  len(assignments),
		Assignments:       assignments,
	}, nil
}

func (s *Service) checkUserExists(id uuid.UUID, field string) error {
	if id == uuid.Nil {
		return invalid(field, "is required")
	}
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return invalid(field, "unknown user")
	}
	return nil
}

func (s *Service) checkProductsExist(items []ItemInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var existing []uuid.UUID
	if err := s.db.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for i, item := range items {
		if !known[item.ProductID] {
			return invalidItem(i, "product_id", "unknown product")
		}
	}
	return nil
}

// isDuplicateKey reports whether err is a uniqueness violation. GORM
// translates these to ErrDuplicatedKey when TranslateError is on; the
// string checks cover drivers that do not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
