package requisition

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eel.in/erp/models"
)

type fixtures struct {
	svc      *Service
	db       *gorm.DB
	user     models.User
	vendor   models.Vendor
	vendor2  models.Vendor
	productA models.Product
	productB models.Product
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "erp_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Single connection keeps sqlite happy under the concurrency test.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Vendor{},
		&models.Requisition{}, &models.RequisitionItem{},
		&models.VendorRequisitionAssignment{}, &models.VendorRequisitionItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixtures{db: db, svc: NewService(db, "EEL")}
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}

	f.user = models.User{
		EmployeeCode: "EMP001",
		Name:         "Test Buyer",
		Email:        "buyer@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	f.vendor = models.Vendor{VendorCode: "VEN001", VendorName: "Vendor X"}
	f.vendor2 = models.Vendor{VendorCode: "VEN002", VendorName: "Vendor Y"}
	f.productA = models.Product{ItemCode: "ITM001", ItemName: "Copper Wire", Unit: "MTR"}
	f.productB = models.Product{ItemCode: "ITM002", ItemName: "Steel Plate", Unit: "KG"}
	for _, rec := range []interface{}{&f.vendor, &f.vendor2, &f.productA, &f.productB} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed master data: %v", err)
		}
	}
	return f
}

func (f *fixtures) createRequisition(t *testing.T, items ...ItemInput) *models.Requisition {
	t.Helper()
	if len(items) == 0 {
		items = []ItemInput{{ProductID: f.productA.ID, Quantity: decimal.NewFromInt(100)}}
	}
	req, err := f.svc.CreateRequisition(CreateRequisitionInput{
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Remarks:   "test requisition",
		CreatedBy: f.user.ID,
		Items:     items,
	})
	if err != nil {
		t.Fatalf("create requisition: %v", err)
	}
	return req
}

func TestCreateRequisitionGeneratesSequentialNumbers(t *testing.T) {
	f := newFixtures(t)

	first := f.createRequisition(t)
	if first.RequisitionNumber != "EEL/2026/001" {
		t.Errorf("first number = %q, expected EEL/2026/001", first.RequisitionNumber)
	}
	if first.IsAssigned {
		t.Error("new requisition should not be assigned")
	}
	if len(first.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(first.Items))
	}
	if !first.Items[0].Quantity.Equal(decimal.NewFromInt(100)) {
		t.Errorf("item quantity = %s, expected 100", first.Items[0].Quantity)
	}

	second := f.createRequisition(t)
	if second.RequisitionNumber != "EEL/2026/002" {
		t.Errorf("second number = %q, expected EEL/2026/002", second.RequisitionNumber)
	}
}

func TestCreateRequisitionNewYearRestartsSequence(t *testing.T) {
	f := newFixtures(t)

	f.createRequisition(t)
	f.createRequisition(t)

	f.svc.now = func() time.Time {
		return time.Date(2027, 1, 2, 9, 0, 0, 0, time.UTC)
	}
	next := f.createRequisition(t)
	if next.RequisitionNumber != "EEL/2027/001" {
		t.Errorf("first 2027 number = %q, expected EEL/2027/001", next.RequisitionNumber)
	}
}

func TestCreateRequisitionEmptyItemsPersistsNothing(t *testing.T) {
	f := newFixtures(t)

	_, err := f.svc.CreateRequisition(CreateRequisitionInput{
		Date:      time.Now(),
		CreatedBy: f.user.ID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	var count int64
	f.db.Model(&models.Requisition{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no persisted requisitions, found %d", count)
	}
}

func TestCreateRequisitionRejectsBadItems(t *testing.T) {
	f := newFixtures(t)

	tests := []struct {
		name string
		item ItemInput
	}{
		{"zero quantity", ItemInput{ProductID: f.productA.ID, Quantity: decimal.Zero}},
		{"negative quantity", ItemInput{ProductID: f.productA.ID, Quantity: decimal.NewFromInt(-5)}},
		{"unknown product", ItemInput{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRequisition(CreateRequisitionInput{
				Date:      time.Now(),
				CreatedBy: f.user.ID,
				Items:     []ItemInput{tt.item},
			})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestDeleteRequisitionAlwaysForbidden(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)

	err := f.svc.DeleteRequisition(req.ID)
	var ferr *ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}

	if _, err := f.svc.GetRequisition(req.ID); err != nil {
		t.Errorf("requisition should be unchanged after refused delete: %v", err)
	}
}

func TestUpdateRequisitionMutableFieldsOnly(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)

	newDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	remarks := "revised"
	updated, err := f.svc.UpdateRequisition(req.ID, UpdateRequisitionInput{
		Date:    &newDate,
		Remarks: &remarks,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Remarks != "revised" {
		t.Errorf("remarks = %q, expected %q", updated.Remarks, "revised")
	}
	if updated.RequisitionNumber != req.RequisitionNumber {
		t.Errorf("number changed on update: %q -> %q", req.RequisitionNumber, updated.RequisitionNumber)
	}
	if updated.IsAssigned {
		t.Error("update must not flip is_assigned")
	}
}

func TestUpdateRequisitionLockedAfterAssignment(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)
	f.assign(t, req, f.vendor.ID, decimal.NewFromInt(60))

	remarks := "too late"
	_, err := f.svc.UpdateRequisition(req.ID, UpdateRequisitionInput{Remarks: &remarks})
	var ferr *ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError after assignment, got %v", err)
	}
}

func TestUpdateRequisitionNotFound(t *testing.T) {
	f := newFixtures(t)
	_, err := f.svc.UpdateRequisition(uuid.New(), UpdateRequisitionInput{})
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func (f *fixtures) assign(t *testing.T, req *models.Requisition, vendorID uuid.UUID, qty decimal.Decimal) *models.VendorRequisitionAssignment {
	t.Helper()
	a, err := f.svc.CreateAssignment(CreateAssignmentInput{
		RequisitionID: req.ID,
		VendorID:      vendorID,
		AssignedBy:    f.user.ID,
		Items: []AssignmentItemInput{{
			RequisitionItemID: req.Items[0].ID,
			ProductID:         req.Items[0].ProductID,
			Quantity:          qty,
		}},
	})
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return a
}

func TestCreateAssignmentFlipsIsAssignedOnce(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)

	a := f.assign(t, req, f.vendor.ID, decimal.NewFromInt(60))
	if len(a.Items) != 1 {
		t.Fatalf("expected 1 assignment item, got %d", len(a.Items))
	}
	if a.Items[0].RequisitionItemID != req.Items[0].ID {
		t.Error("assignment item does not reference the source requisition item")
	}

	after, err := f.svc.GetRequisition(req.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !after.IsAssigned {
		t.Error("is_assigned should be true after first assignment")
	}

	// Second assignment against the same requisition is fine and leaves
	// the flag true.
	f.assign(t, req, f.vendor2.ID, decimal.NewFromInt(40))
	after, _ = f.svc.GetRequisition(req.ID)
	if !after.IsAssigned {
		t.Error("is_assigned should remain true after second assignment")
	}

	view, err := f.svc.ListAssignments(req.ID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if view.TotalAssignments != 2 {
		t.Errorf("total_assignments = %d, expected 2", view.TotalAssignments)
	}
	if view.RequisitionNumber != req.RequisitionNumber {
		t.Errorf("assignments view number = %q, expected %q", view.RequisitionNumber, req.RequisitionNumber)
	}
}

func TestCreateAssignmentRejectsForeignRequisitionItem(t *testing.T) {
	f := newFixtures(t)
	reqA := f.createRequisition(t)
	reqB := f.createRequisition(t, ItemInput{ProductID: f.productB.ID, Quantity: decimal.NewFromInt(10)})

	_, err := f.svc.CreateAssignment(CreateAssignmentInput{
		RequisitionID: reqA.ID,
		VendorID:      f.vendor.ID,
		AssignedBy:    f.user.ID,
		Items: []AssignmentItemInput{{
			RequisitionItemID: reqB.Items[0].ID,
			ProductID:         reqB.Items[0].ProductID,
			Quantity:          decimal.NewFromInt(1),
		}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for foreign requisition item, got %v", err)
	}
}

func TestCreateAssignmentRejectsProductMismatch(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)

	_, err := f.svc.CreateAssignment(CreateAssignmentInput{
		RequisitionID: req.ID,
		VendorID:      f.vendor.ID,
		AssignedBy:    f.user.ID,
		Items: []AssignmentItemInput{{
			RequisitionItemID: req.Items[0].ID,
			ProductID:         f.productB.ID, // item is for product A
			Quantity:          decimal.NewFromInt(1),
		}},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for product mismatch, got %v", err)
	}
}

func TestCreateAssignmentValidation(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)

	tests := []struct {
		name string
		in   CreateAssignmentInput
	}{
		{"empty items", CreateAssignmentInput{
			RequisitionID: req.ID, VendorID: f.vendor.ID, AssignedBy: f.user.ID,
		}},
		{"zero quantity", CreateAssignmentInput{
			RequisitionID: req.ID, VendorID: f.vendor.ID, AssignedBy: f.user.ID,
			Items: []AssignmentItemInput{{
				RequisitionItemID: req.Items[0].ID,
				ProductID:         req.Items[0].ProductID,
				Quantity:          decimal.Zero,
			}},
		}},
		{"unknown vendor", CreateAssignmentInput{
			RequisitionID: req.ID, VendorID: uuid.New(), AssignedBy: f.user.ID,
			Items: []AssignmentItemInput{{
				RequisitionItemID: req.Items[0].ID,
				ProductID:         req.Items[0].ProductID,
				Quantity:          decimal.NewFromInt(1),
			}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateAssignment(tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateAssignmentUnknownRequisition(t *testing.T) {
	f := newFixtures(t)
	_, err := f.svc.CreateAssignment(CreateAssignmentInput{
		RequisitionID: uuid.New(),
		VendorID:      f.vendor.ID,
		AssignedBy:    f.user.ID,
		Items: []AssignmentItemInput{{
			RequisitionItemID: uuid.New(),
			ProductID:         f.productA.ID,
			Quantity:          decimal.NewFromInt(1),
		}},
	})
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// The schema does not cap the summed assigned quantity against the
// parent line's quantity: assigning 60 twice on a 100-unit line
// succeeds. Changing this would be a schema-level decision; the test
// pins the permissive behavior.
func TestOverAssignmentCurrentlyPermitted(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t) // product A, qty 100

	f.assign(t, req, f.vendor.ID, decimal.NewFromInt(60))
	f.assign(t, req, f.vendor2.ID, decimal.NewFromInt(60))

	view, err := f.svc.ListAssignments(req.ID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if view.TotalAssignments != 2 {
		t.Fatalf("expected both over-assignments to persist, got %d", view.TotalAssignments)
	}
}

func TestDeleteAssignmentAlwaysForbidden(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t)
	a := f.assign(t, req, f.vendor.ID, decimal.NewFromInt(10))

	err := f.svc.DeleteAssignment(a.ID)
	var ferr *ForbiddenError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if _, err := f.svc.GetAssignment(a.ID); err != nil {
		t.Errorf("assignment should be unchanged after refused delete: %v", err)
	}
}

func TestListItemsView(t *testing.T) {
	f := newFixtures(t)
	req := f.createRequisition(t,
		ItemInput{ProductID: f.productA.ID, Quantity: decimal.NewFromInt(100)},
		ItemInput{ProductID: f.productB.ID, Quantity: decimal.NewFromInt(25)},
	)

	view, err := f.svc.ListItems(req.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if view.TotalItems != 2 {
		t.Errorf("total_items = %d, expected 2", view.TotalItems)
	}
	if view.RequisitionNumber != req.RequisitionNumber {
		t.Errorf("items view number = %q, expected %q", view.RequisitionNumber, req.RequisitionNumber)
	}
}

func TestConcurrentCreationYieldsDistinctNumbers(t *testing.T) {
	f := newFixtures(t)

	const n = 10
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := f.svc.CreateRequisition(CreateRequisitionInput{
				Date:      time.Now(),
				CreatedBy: f.user.ID,
				Items:     []ItemInput{{ProductID: f.productA.ID, Quantity: decimal.NewFromInt(1)}},
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- req.RequisitionNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}
	seen := map[string]bool{}
	for num := range numbers {
		if seen[num] {
			t.Fatalf("duplicate requisition number generated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct numbers, got %d", n, len(seen))
	}
}
