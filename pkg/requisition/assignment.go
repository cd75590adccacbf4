// pkg/requisition/assignment.go
package requisition

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"eel.in/erp/models"
)

// AssignmentItemInput is one line of a new vendor assignment. ProductID
// must match the product of the referenced requisition item; it is kept
// as a denormalized cross-check, not trusted from the caller.
type AssignmentItemInput struct {
	RequisitionItemID uuid.UUID       `json:"requisition_item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
}

// CreateAssignmentInput carries everything needed to assign requisition
// lines to one vendor. AssignedBy comes from the authenticated caller.
type CreateAssignmentInput struct {
	RequisitionID uuid.UUID
	VendorID      uuid.UUID
	AssignedBy    uuid.UUID
	Remarks       string
	Items         []AssignmentItemInput
}

// CreateAssignment persists one vendor assignment with its items and
// flips the parent requisition's is_assigned flag, all in one
// transaction. The flip is monotonic: the first assignment sets it,
// later ones leave it true.
func (s *Service) CreateAssignment(in CreateAssignmentInput) (*models.VendorRequisitionAssignment, error) {
	if len(in.Items) == 0 {
		return nil, invalid("items", "at least one item is required")
	}
	for i, item := range in.Items {
		if item.RequisitionItemID == uuid.Nil {
			return nil, invalidItem(i, "requisition_item_id", "is required")
		}
		if item.ProductID == uuid.Nil {
			return nil, invalidItem(i, "product_id", "is required")
		}
		if !item.Quantity.IsPositive() {
			return nil, invalidItem(i, "quantity", "must be greater than zero")
		}
	}
	if err := s.checkUserExists(in.AssignedBy, "assigned_by"); err != nil {
		return nil, err
	}

	var assignmentID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var req models.Requisition
		if err := tx.First(&req, "id = ?", in.RequisitionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "requisition"}
			}
			return err
		}

		var vendorCount int64
		if err := tx.Model(&models.Vendor{}).Where("id = ?", in.VendorID).Count(&vendorCount).Error; err != nil {
			return err
		}
		if vendorCount == 0 {
			return invalid("vendor_id", "unknown vendor")
		}

		// Every referenced requisition item must belong to the stated
		// requisition, and the denormalized product must match it.
		var reqItems []models.RequisitionItem
		if err := tx.Where("requisition_id = ?", in.RequisitionID).Find(&reqItems).Error; err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.RequisitionItem, len(reqItems))
		for _, ri := range reqItems {
			byID[ri.ID] = ri
		}
		for i, item := range in.Items {
			ri, ok := byID[item.RequisitionItemID]
			if !ok {
				return invalidItem(i, "requisition_item_id", "does not belong to this requisition")
			}
			if ri.ProductID != item.ProductID {
				return invalidItem(i, "product_id", "does not match the requisition item's product")
			}
		}

		assignment := models.VendorRequisitionAssignment{
			RequisitionID:  in.RequisitionID,
			VendorID:       in.VendorID,
			AssignmentDate: models.JSONDate(s.now()),
			Remarks:        in.Remarks,
			AssignedByID:   in.AssignedBy,
		}
		for _, item := range in.Items {
			assignment.Items = append(assignment.Items, models.VendorRequisitionItem{
				RequisitionItemID: item.RequisitionItemID,
				ProductID:         item.ProductID,
				Quantity:          item.Quantity,
			})
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Requisition{}).
			Where("id = ?", in.RequisitionID).
			Update("is_assigned", true).Error; err != nil {
			return err
		}

		assignmentID = assignment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetAssignment(assignmentID)
}

// DeleteAssignment always refuses: assignments are permanent for the
// audit trail.
func (s *Service) DeleteAssignment(id uuid.UUID) error {
	return &ForbiddenError{
		Reason:  "Vendor assignments cannot be deleted",
		Message: "Assignments are permanent for audit trail",
	}
}

// GetAssignment loads one assignment with vendor, assignor and nested
// items.
func (s *Service) GetAssignment(id uuid.UUID) (*models.VendorRequisitionAssignment, error) {
	var assignment models.VendorRequisitionAssignment
	err := s.db.
		Preload("Requisition").
		Preload("Vendor").
		Preload("AssignedBy").
		Preload("Items").
		Preload("Items.RequisitionItem").
		Preload("Items.Product").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "vendor assignment"}
		}
		return nil, err
	}
	return &assignment, nil
}

// ListAllAssignments returns every vendor assignment, newest first.
func (s *Service) ListAllAssignments() ([]models.VendorRequisitionAssignment, error) {
	var assignments []models.VendorRequisitionAssignment
	err := s.db.
		Preload("Requisition").
		Preload("Vendor").
		Preload("AssignedBy").
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}
