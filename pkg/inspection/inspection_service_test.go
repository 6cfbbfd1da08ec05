package inspection

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/entities"
)

type fakeRepository struct {
	mu          sync.Mutex
	inspections map[uint]*entities.Inspection
	lineItems   map[uint]*entities.LineItem

	nextInspectionID uint
	nextLineItemID   uint

	recomputed []uint
	stats      StatsRow
	severity   []domain.SeverityCount
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		inspections: make(map[uint]*entities.Inspection),
		lineItems:   make(map[uint]*entities.LineItem),
		severity:    []domain.SeverityCount{},
	}
}

func (r *fakeRepository) CreateInspection(_ context.Context, inspection *entities.Inspection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextInspectionID++
	inspection.ID = r.nextInspectionID
	r.inspections[inspection.ID] = inspection
	return nil
}

func (r *fakeRepository) GetInspections(_ context.Context, filter domain.InspectionFilter) ([]*entities.Inspection, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entities.Inspection
	for _, inspection := range r.inspections {
		if filter.Status != "" && inspection.Status != filter.Status {
			continue
		}
		matched = append(matched, inspection)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].InspectionDate.After(matched[j].InspectionDate)
	})

	count := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return nil, count, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], count, nil
}

func (r *fakeRepository) GetInspectionByID(_ context.Context, id uint) (*entities.Inspection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inspection, ok := r.inspections[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inspection, nil
}

func (r *fakeRepository) UpdateInspection(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inspection, ok := r.inspections[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := fields["status"]; ok {
		inspection.Status = status.(string)
	}
	if total, ok := fields["total_amount"]; ok {
		inspection.TotalAmount = total.(float64)
	}
	if notes, ok := fields["notes"]; ok {
		inspection.Notes = notes.(string)
	}
	if updatedAt, ok := fields["updated_at"]; ok {
		inspection.UpdatedAt = updatedAt.(time.Time)
	}
	return nil
}

func (r *fakeRepository) AddLineItem(_ context.Context, lineItem *entities.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLineItemID++
	lineItem.ID = r.nextLineItemID
	r.lineItems[lineItem.ID] = lineItem
	return nil
}

func (r *fakeRepository) GetLineItemByID(_ context.Context, id uint) (*entities.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lineItem, ok := r.lineItems[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lineItem, nil
}

func (r *fakeRepository) GetLineItems(_ context.Context, inspectionID uint) ([]*entities.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entities.LineItem
	for _, item := range r.lineItems {
		if item.InspectionID == inspectionID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeRepository) UpdateLineItem(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lineItem, ok := r.lineItems[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if itemType, ok := fields["item_type"]; ok {
		lineItem.ItemType = itemType.(string)
	}
	if description, ok := fields["description"]; ok {
		lineItem.Description = description.(string)
	}
	if severity, ok := fields["severity"]; ok {
		lineItem.Severity = severity.(string)
	}
	if status, ok := fields["status"]; ok {
		lineItem.Status = status.(string)
	}
	if cost, ok := fields["cost"]; ok {
		lineItem.Cost = cost.(float64)
	}
	if notes, ok := fields["notes"]; ok {
		lineItem.Notes = notes.(string)
	}
	return nil
}

func (r *fakeRepository) DeleteLineItem(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lineItems, id)
	return nil
}

func (r *fakeRepository) AppendPhoto(_ context.Context, lineItemID uint, fileName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lineItem, ok := r.lineItems[lineItemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	photos := lineItem.PhotoList()
	photos = append(photos, fileName)
	raw := `[`
	for i, photo := range photos {
		if i > 0 {
			raw += `,`
		}
		raw += `"` + photo + `"`
	}
	raw += `]`
	lineItem.Photos = raw
	return nil
}

func (r *fakeRepository) RecalculateTotal(_ context.Context, inspectionID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recomputed = append(r.recomputed, inspectionID)
	inspection, ok := r.inspections[inspectionID]
	if !ok {
		return nil
	}
	total := 0.0
	for _, item := range r.lineItems {
		if item.InspectionID == inspectionID {
			total += item.Cost
		}
	}
	inspection.TotalAmount = total
	return nil
}

func (r *fakeRepository) GetStats(_ context.Context, _ *uint) (*StatsRow, error) {
	return &r.stats, nil
}

func (r *fakeRepository) GetSeverityDistribution(_ context.Context, _ *uint) ([]domain.SeverityCount, error) {
	return r.severity, nil
}

type recordedEvent struct {
	room  uint // 0 means global
	event string
	data  interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) BroadcastGlobal(event string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{event: event, data: data})
}

func (n *fakeNotifier) BroadcastRoom(inspectionID uint, event string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{room: inspectionID, event: event, data: data})
}

func (n *fakeNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.events))
	for _, e := range n.events {
		names = append(names, e.event)
	}
	return names
}

type fakeMailer struct {
	sent chan string
}

func (m *fakeMailer) SendMail(toEmail string, _ string, _ string) error {
	m.sent <- toEmail
	return nil
}

func newTestService() (InspectionService, *fakeRepository, *fakeNotifier) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	return NewInspectionService(repo, notifier, nil), repo, notifier
}

func seedInspection(repo *fakeRepository, mechanic *entities.Mechanic) *entities.Inspection {
	repo.nextInspectionID++
	inspection := &entities.Inspection{
		VehicleVIN:     "1HGBH41JXMN109186",
		CustomerID:     7,
		InspectionDate: time.Now(),
		Status:         "pending",
	}
	inspection.ID = repo.nextInspectionID
	if mechanic != nil {
		inspection.MechanicID = &mechanic.ID
		inspection.Mechanic = mechanic
	}
	repo.inspections[inspection.ID] = inspection
	return inspection
}

func TestCreateInspection(t *testing.T) {
	service, repo, notifier := newTestService()

	res, err := service.CreateInspection(context.Background(), domain.CreateInspectionRequest{
		VehicleVIN: "1HGBH41JXMN109186",
		CustomerID: 7,
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, "pending", res.Status)

	created := repo.inspections[res.InspectionID]
	assert.NotNil(t, created)
	assert.Equal(t, float64(0), created.TotalAmount)
	if assert.NotNil(t, created.MechanicID) {
		assert.Equal(t, uint(3), *created.MechanicID)
	}

	assert.Equal(t, []string{EventInspectionCreated}, notifier.names())
	assert.Equal(t, uint(0), notifier.events[0].room)
}

func TestCreateInspection_InvalidVIN(t *testing.T) {
	service, repo, notifier := newTestService()

	for _, vin := range []string{"", "SHORT", "1HGBH41JXMN10918", "1HGBH41JXMN1091866", "1HGBH41JXMN10918!"} {
		_, err := service.CreateInspection(context.Background(), domain.CreateInspectionRequest{
			VehicleVIN: vin,
			CustomerID: 7,
		}, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidVIN, "vin %q", vin)
	}

	assert.Empty(t, repo.inspections)
	assert.Empty(t, notifier.events)
}

func TestCreateInspection_InvalidCustomer(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.CreateInspection(context.Background(), domain.CreateInspectionRequest{
		VehicleVIN: "1HGBH41JXMN109186",
	}, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerID)
}

func TestAddLineItem_RecalculatesTotal(t *testing.T) {
	service, repo, notifier := newTestService()
	inspection := seedInspection(repo, nil)
	ctx := context.Background()

	cost := 100.0
	firstID, err := service.AddLineItem(ctx, inspection.ID, domain.CreateLineItemRequest{
		ItemType: "brakes", Description: "front pads worn", Severity: "warning", Status: "attention", Cost: &cost,
	})
	assert.NoError(t, err)

	cost = 50.0
	secondID, err := service.AddLineItem(ctx, inspection.ID, domain.CreateLineItemRequest{
		ItemType: "tires", Description: "rotation", Severity: "good", Status: "passed", Cost: &cost,
	})
	assert.NoError(t, err)
	assert.Equal(t, 150.0, inspection.TotalAmount)

	newCost := 100.50
	err = service.UpdateLineItem(ctx, inspection.ID, secondID, domain.UpdateLineItemRequest{Cost: &newCost})
	assert.NoError(t, err)
	assert.Equal(t, 200.50, inspection.TotalAmount)

	err = service.DeleteLineItem(ctx, inspection.ID, firstID)
	assert.NoError(t, err)
	assert.Equal(t, 100.50, inspection.TotalAmount)

	assert.Equal(t, []string{
		EventLineItemAdded,
		EventLineItemAdded,
		EventLineItemUpdated,
		EventLineItemDeleted,
	}, notifier.names())
	for _, event := range notifier.events {
		assert.Equal(t, inspection.ID, event.room)
	}
}

func TestAddLineItem_DefaultsCostToZero(t *testing.T) {
	service, repo, _ := newTestService()
	inspection := seedInspection(repo, nil)

	id, err := service.AddLineItem(context.Background(), inspection.ID, domain.CreateLineItemRequest{
		ItemType: "lights", Description: "all functional", Severity: "good", Status: "passed",
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, repo.lineItems[id].Cost)
	assert.Equal(t, 0.0, inspection.TotalAmount)
}

func TestAddLineItem_MissingInspection(t *testing.T) {
	service, repo, notifier := newTestService()

	_, err := service.AddLineItem(context.Background(), 99, domain.CreateLineItemRequest{
		ItemType: "brakes", Description: "pads", Severity: "good", Status: "passed",
	})
	assert.ErrorIs(t, err, domain.ErrInspectionNotFound)
	assert.Empty(t, repo.lineItems)
	assert.Empty(t, notifier.events)
}

func TestAddLineItem_ConcurrentAddsBothPersist(t *testing.T) {
	service, repo, _ := newTestService()
	inspection := seedInspection(repo, nil)

	var wg sync.WaitGroup
	for _, cost := range []float64{10.0, 20.0} {
		wg.Add(1)
		go func(cost float64) {
			defer wg.Done()
			_, err := service.AddLineItem(context.Background(), inspection.ID, domain.CreateLineItemRequest{
				ItemType: "brakes", Description: "pads", Severity: "good", Status: "passed", Cost: &cost,
			})
			assert.NoError(t, err)
		}(cost)
	}
	wg.Wait()

	assert.Len(t, repo.lineItems, 2)
	assert.Equal(t, 30.0, inspection.TotalAmount)
}

func TestUpdateLineItem_EmptyPatchIsNoOp(t *testing.T) {
	service, repo, notifier := newTestService()
	inspection := seedInspection(repo, nil)
	cost := 25.0
	_, err := service.AddLineItem(context.Background(), inspection.ID, domain.CreateLineItemRequest{
		ItemType: "fluids", Description: "oil level", Severity: "good", Status: "passed", Cost: &cost,
	})
	assert.NoError(t, err)
	recomputes := len(repo.recomputed)
	events := len(notifier.events)

	err = service.UpdateLineItem(context.Background(), inspection.ID, 1, domain.UpdateLineItemRequest{})
	assert.NoError(t, err)
	assert.Len(t, repo.recomputed, recomputes)
	assert.Len(t, notifier.events, events)
}

func TestUpdateLineItem_NotFound(t *testing.T) {
	service, repo, _ := newTestService()
	seedInspection(repo, nil)

	severity := "critical"
	err := service.UpdateLineItem(context.Background(), 1, 42, domain.UpdateLineItemRequest{Severity: &severity})
	assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
}

func TestUpdateLineItem_ResolvesOwnerFromRow(t *testing.T) {
	service, repo, notifier := newTestService()
	owner := seedInspection(repo, nil)
	other := seedInspection(repo, nil)
	cost := 80.0
	itemID, err := service.AddLineItem(context.Background(), owner.ID, domain.CreateLineItemRequest{
		ItemType: "suspension", Description: "strut leak", Severity: "critical", Status: "failed", Cost: &cost,
	})
	assert.NoError(t, err)

	newCost := 120.0
	err = service.UpdateLineItem(context.Background(), other.ID, itemID, domain.UpdateLineItemRequest{Cost: &newCost})
	assert.NoError(t, err)

	assert.Equal(t, 120.0, owner.TotalAmount)
	assert.Equal(t, 0.0, other.TotalAmount)
	last := notifier.events[len(notifier.events)-1]
	assert.Equal(t, owner.ID, last.room)
}

func TestDeleteLineItem_MissingRowSkipsRecompute(t *testing.T) {
	service, repo, notifier := newTestService()
	inspection := seedInspection(repo, nil)
	inspection.TotalAmount = 75.0

	err := service.DeleteLineItem(context.Background(), inspection.ID, 42)
	assert.NoError(t, err)
	assert.Empty(t, repo.recomputed)
	assert.Empty(t, notifier.events)
	assert.Equal(t, 75.0, inspection.TotalAmount)
}

func TestAddPhotoToLineItem(t *testing.T) {
	service, repo, notifier := newTestService()
	inspection := seedInspection(repo, nil)
	itemID, err := service.AddLineItem(context.Background(), inspection.ID, domain.CreateLineItemRequest{
		ItemType: "body", Description: "door dent", Severity: "warning", Status: "attention",
	})
	assert.NoError(t, err)

	err = service.AddPhotoToLineItem(context.Background(), inspection.ID, itemID, "https://bucket/photo-1.jpg")
	assert.NoError(t, err)
	err = service.AddPhotoToLineItem(context.Background(), inspection.ID, itemID, "https://bucket/photo-2.jpg")
	assert.NoError(t, err)

	assert.Equal(t, []string{
		"https://bucket/photo-1.jpg",
		"https://bucket/photo-2.jpg",
	}, repo.lineItems[itemID].PhotoList())

	last := notifier.events[len(notifier.events)-1]
	assert.Equal(t, EventLineItemUpdated, last.event)
	assert.Equal(t, inspection.ID, last.room)
}

func TestAddPhotoToLineItem_NotFound(t *testing.T) {
	service, repo, _ := newTestService()
	seedInspection(repo, nil)

	err := service.AddPhotoToLineItem(context.Background(), 1, 42, "https://bucket/photo.jpg")
	assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
}

func TestUpdateInspection_SparsePatch(t *testing.T) {
	service, repo, notifier := newTestService()
	inspection := seedInspection(repo, nil)
	inspection.Notes = "initial"

	status := "in-progress"
	err := service.UpdateInspection(context.Background(), inspection.ID, domain.UpdateInspectionRequest{Status: &status})
	assert.NoError(t, err)

	assert.Equal(t, "in-progress", inspection.Status)
	assert.Equal(t, "initial", inspection.Notes)
	assert.Equal(t, []string{EventInspectionUpdated}, notifier.names())
	assert.Equal(t, inspection.ID, notifier.events[0].room)
}

func TestUpdateInspection_RepeatedNotesPatchIsIdempotent(t *testing.T) {
	service, repo, _ := newTestService()
	inspection := seedInspection(repo, nil)
	inspection.TotalAmount = 99.5

	notes := "x"
	for i := 0; i < 2; i++ {
		err := service.UpdateInspection(context.Background(), inspection.ID, domain.UpdateInspectionRequest{Notes: &notes})
		assert.NoError(t, err)
	}

	assert.Equal(t, "x", inspection.Notes)
	assert.Equal(t, 99.5, inspection.TotalAmount)
}

func TestUpdateInspection_NotFound(t *testing.T) {
	service, _, notifier := newTestService()

	notes := "nothing here"
	err := service.UpdateInspection(context.Background(), 99, domain.UpdateInspectionRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrInspectionNotFound)
	assert.Empty(t, notifier.events)
}

func TestCompleteInspection(t *testing.T) {
	repo := newFakeRepository()
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{sent: make(chan string, 1)}
	service := NewInspectionService(repo, notifier, mailer)

	mechanic := &entities.Mechanic{Name: "Dana", Email: "dana@shop.test"}
	mechanic.ID = 5
	inspection := seedInspection(repo, mechanic)

	res, err := service.CompleteInspection(context.Background(), inspection.ID)
	assert.NoError(t, err)
	assert.Equal(t, inspection.ID, res.InspectionID)
	assert.Equal(t, "completed", inspection.Status)

	names := notifier.names()
	assert.Contains(t, names, EventInspectionUpdated)
	assert.Contains(t, names, EventInspectionCompleted)

	select {
	case to := <-mailer.sent:
		assert.Equal(t, "dana@shop.test", to)
	case <-time.After(time.Second):
		t.Fatal("completion mail was not sent")
	}
}

func TestGetInspections_PaginationDefaults(t *testing.T) {
	service, repo, _ := newTestService()
	for i := 0; i < 3; i++ {
		seedInspection(repo, nil)
	}

	items, count, err := service.GetInspections(context.Background(), domain.InspectionFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, items, 3)
}

func TestGetInspections_SecondPageNewestFirst(t *testing.T) {
	service, repo, _ := newTestService()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		inspection := seedInspection(repo, nil)
		inspection.Status = "completed"
		inspection.InspectionDate = base.Add(time.Duration(i) * time.Hour)
	}
	pending := seedInspection(repo, nil)
	pending.InspectionDate = base.Add(10 * time.Hour)

	items, count, err := service.GetInspections(context.Background(), domain.InspectionFilter{
		Status: "completed",
		Page:   2,
		Limit:  2,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Len(t, items, 2)

	// page 1 holds the two newest completed inspections, page 2 the next two
	assert.Equal(t, uint(3), items[0].ID)
	assert.Equal(t, uint(2), items[1].ID)
	assert.True(t, items[0].InspectionDate.After(items[1].InspectionDate))
}

func TestGetInspectionDetail_NotFound(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.GetInspectionDetail(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrInspectionNotFound)
}

func TestBuildReport(t *testing.T) {
	service, repo, _ := newTestService()
	inspection := seedInspection(repo, nil)
	ctx := context.Background()

	add := func(status string, cost float64) {
		_, err := service.AddLineItem(ctx, inspection.ID, domain.CreateLineItemRequest{
			ItemType: "check", Description: status, Severity: "good", Status: status, Cost: &cost,
		})
		assert.NoError(t, err)
	}
	add("passed", 0)
	add("passed", 10)
	add("attention", 40)
	add("failed", 250)

	report, err := service.BuildReport(ctx, inspection.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, report.Summary.TotalItems)
	assert.Equal(t, 2, report.Summary.PassedItems)
	assert.Equal(t, 1, report.Summary.AttentionItems)
	assert.Equal(t, 1, report.Summary.FailedItems)
	assert.Equal(t, 300.0, report.Summary.TotalCost)
	assert.Equal(t, report.Summary.TotalCost, report.Inspection.TotalAmount)
}

func TestGetStats(t *testing.T) {
	service, repo, _ := newTestService()
	repo.stats = StatsRow{
		TotalInspections:     12,
		CompletedInspections: 8,
		TotalRevenue:         3400.0,
		AvgInspectionValue:   283.33,
	}
	repo.severity = []domain.SeverityCount{
		{Severity: "good", Count: 20},
		{Severity: "critical", Count: 3},
	}

	stats, err := service.GetStats(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalInspections)
	assert.Equal(t, int64(8), stats.CompletedInspections)
	assert.Equal(t, 3400.0, stats.TotalRevenue)
	assert.Len(t, stats.SeverityDistribution, 2)
}
