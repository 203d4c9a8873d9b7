package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leasedesk/leasedesk/internal/domain"
	"github.com/leasedesk/leasedesk/internal/ports"
)

// MockAuditLogRepository is a mock implementation of ports.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Append(ctx context.Context, records []domain.ChangeRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListByLease(ctx context.Context, leaseID int64) ([]domain.ChangeRecord, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChangeRecord), args.Error(1)
}

// MockLeaseRepository is a mock implementation of ports.LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id int64) (*domain.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FieldValues(ctx context.Context, id int64) (map[string]*string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*string), args.Error(1)
}

func (m *MockLeaseRepository) Update(ctx context.Context, id int64, fields map[string]*string) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockExporter is a mock implementation of ports.Exporter
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Render(rows []ports.ExportRow) (ports.Attachment, error) {
	args := m.Called(rows)
	return args.Get(0).(ports.Attachment), args.Error(1)
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendMail(ctx context.Context, mail ports.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

func newAuditFixture() (*AuditUseCase, *MockAuditLogRepository, *MockLeaseRepository, *MockExporter, *MockNotifier) {
	auditRepo := new(MockAuditLogRepository)
	leaseRepo := new(MockLeaseRepository)
	exporter := new(MockExporter)
	notifier := new(MockNotifier)
	uc := NewAuditUseCase(auditRepo, leaseRepo, exporter, notifier)
	return uc, auditRepo, leaseRepo, exporter, notifier
}

func lease(id int64) *domain.Lease {
	return &domain.Lease{ID: id, AgreementTitle: "HQ lease", Status: domain.LeaseStatusApproved}
}

func TestAuditUseCase_GetChangeLog(t *testing.T) {
	uc, auditRepo, leaseRepo, _, _ := newAuditFixture()
	ctx := context.Background()

	records := []domain.ChangeRecord{
		{LeaseID: 1, ChangedBy: "bob", ChangeTimestamp: "t2", FieldName: "rent", Action: domain.ActionUpdate},
	}
	leaseRepo.On("FindByID", ctx, int64(1)).Return(lease(1), nil)
	auditRepo.On("ListByLease", ctx, int64(1)).Return(records, nil)

	got, err := uc.GetChangeLog(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestAuditUseCase_GetChangeLog_LeaseNotFound(t *testing.T) {
	uc, _, leaseRepo, _, _ := newAuditFixture()
	ctx := context.Background()

	leaseRepo.On("FindByID", ctx, int64(7)).Return(nil, nil)

	_, err := uc.GetChangeLog(ctx, 7)

	assert.ErrorIs(t, err, domain.ErrLeaseNotFound)
}

func TestAuditUseCase_GetReviewTable_GroupsAndFilters(t *testing.T) {
	uc, auditRepo, leaseRepo, _, _ := newAuditFixture()
	ctx := context.Background()

	records := []domain.ChangeRecord{
		{LeaseID: 1, ChangedBy: "bob", ChangeTimestamp: "t2", FieldName: "rent", Action: domain.ActionUpdate},
		{LeaseID: 1, ChangedBy: "bob", ChangeTimestamp: "t2", FieldName: "term", Action: domain.ActionUpdate},
		{LeaseID: 1, ChangedBy: "amy", ChangeTimestamp: "t1", FieldName: "status", Action: domain.ActionUpdate},
	}
	leaseRepo.On("FindByID", ctx, int64(1)).Return(lease(1), nil)
	auditRepo.On("ListByLease", ctx, int64(1)).Return(records, nil)

	table, err := uc.GetReviewTable(ctx, 1, "amy")

	assert.NoError(t, err)
	assert.False(t, table.Empty)
	assert.Len(t, table.Summaries, 2)
	assert.Equal(t, "amy", table.Query)
	assert.False(t, table.Summaries[0].Visible)
	assert.True(t, table.Summaries[1].Visible)
}

func TestAuditUseCase_GetReviewTable_EmptyFeedSetsIndicator(t *testing.T) {
	uc, auditRepo, leaseRepo, _, _ := newAuditFixture()
	ctx := context.Background()

	leaseRepo.On("FindByID", ctx, int64(1)).Return(lease(1), nil)
	auditRepo.On("ListByLease", ctx, int64(1)).Return([]domain.ChangeRecord{}, nil)

	table, err := uc.GetReviewTable(ctx, 1, "")

	assert.NoError(t, err)
	assert.True(t, table.Empty)
}

func TestAuditUseCase_GetReviewTable_LoadFailureReturnsNoTable(t *testing.T) {
	uc, auditRepo, leaseRepo, _, _ := newAuditFixture()
	ctx := context.Background()

	leaseRepo.On("FindByID", ctx, int64(1)).Return(lease(1), nil)
	auditRepo.On("ListByLease", ctx, int64(1)).Return(nil, errors.New("connection refused"))

	table, err := uc.GetReviewTable(ctx, 1, "")

	assert.Error(t, err)
	assert.Nil(t, table)
}

func TestAuditUseCase_RecordLeaseChanges_WritesOneRecordPerChangedField(t *testing.T) {
	uc, auditRepo, _, _, _ := newAuditFixture()
	ctx := context.Background()

	fixed := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	var captured []domain.ChangeRecord
	auditRepo.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]domain.ChangeRecord)
	}).Return(nil)

	n, err := uc.RecordLeaseChanges(ctx, RecordChangesRequest{
		LeaseID:  1,
		UserID:   9,
		Username: "bob",
		Action:   domain.ActionUpdate,
		Old: map[string]*string{
			"rent":   strPtr("1000"),
			"term":   strPtr("12"),
			"status": strPtr("draft"),
		},
		New: map[string]*string{
			"rent":   strPtr("1200"),
			"term":   strPtr("12"), // unchanged, must be skipped
			"status": strPtr("submitted"),
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, captured, 2)

	// all records of one edit share one timestamp so they stay adjacent in
	// the descending feed
	for _, rec := range captured {
		assert.Equal(t, "2026-08-20 10:00:00", rec.ChangeTimestamp)
		assert.Equal(t, "bob", rec.ChangedBy)
		assert.Equal(t, domain.ActionUpdate, rec.Action)
	}
	assert.Equal(t, "rent", captured[0].FieldName)
	assert.Equal(t, "status", captured[1].FieldName)
}

func TestAuditUseCase_RecordLeaseChanges_NoDiffWritesNothing(t *testing.T) {
	uc, auditRepo, _, _, _ := newAuditFixture()
	ctx := context.Background()

	n, err := uc.RecordLeaseChanges(ctx, RecordChangesRequest{
		LeaseID:  1,
		Username: "bob",
		Action:   domain.ActionUpdate,
		Old:      map[string]*string{"rent": strPtr("1000")},
		New:      map[string]*string{"rent": strPtr("1000")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestAuditUseCase_RecordLeaseChanges_NilToValueIsAChange(t *testing.T) {
	uc, auditRepo, _, _, _ := newAuditFixture()
	ctx := context.Background()

	var captured []domain.ChangeRecord
	auditRepo.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).([]domain.ChangeRecord)
	}).Return(nil)

	n, err := uc.RecordLeaseChanges(ctx, RecordChangesRequest{
		LeaseID:  2,
		Username: "amy",
		Action:   domain.ActionCreate,
		Old:      map[string]*string{},
		New:      map[string]*string{"status": strPtr("draft")},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, captured[0].OldValue)
	assert.Equal(t, "draft", *captured[0].NewValue)
}

func TestAuditUseCase_ExportReview_MailsVisibleRows(t *testing.T) {
	uc, auditRepo, leaseRepo, exporter, notifier := newAuditFixture()
	ctx := context.Background()

	records := []domain.ChangeRecord{
		{LeaseID: 1, ChangedBy: "bob", ChangeTimestamp: "t2", FieldName: "rent", Action: domain.ActionUpdate},
		{LeaseID: 1, ChangedBy: "amy", ChangeTimestamp: "t1", FieldName: "status", Action: domain.ActionUpdate},
	}
	leaseRepo.On("FindByID", ctx, int64(1)).Return(lease(1), nil)
	auditRepo.On("ListByLease", ctx, int64(1)).Return(records, nil)

	attachment := ports.Attachment{Filename: "audit.csv", ContentType: "text/csv", Data: []byte("x")}
	exporter.On("Render", mock.MatchedBy(func(rows []ports.ExportRow) bool {
		return len(rows) == 1 && rows[0].User == "amy"
	})).Return(attachment, nil)

	notifier.On("SendMail", ctx, mock.MatchedBy(func(mail ports.Mail) bool {
		return mail.Attachment != nil && mail.Attachment.Filename == "audit.csv" &&
			len(mail.To) == 1 && mail.To[0] == "reviewer@example.com"
	})).Return(nil)

	err := uc.ExportReview(ctx, ExportReviewRequest{
		LeaseID: 1,
		Query:   "amy",
		To:      []string{"reviewer@example.com"},
		Subject: "Audit export",
		Body:    "Attached.",
	})

	assert.NoError(t, err)
	exporter.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAuditUseCase_ExportReview_RequiresRecipient(t *testing.T) {
	uc, _, _, _, _ := newAuditFixture()

	err := uc.ExportReview(context.Background(), ExportReviewRequest{LeaseID: 1})

	assert.Error(t, err)
}

func TestAuditUseCase_ExportReview_SendFailureIsReported(t *testing.T) {
	uc, auditRepo, leaseRepo, exporter, notifier := newAuditFixture()
	ctx := context.Background()

	leaseRepo.On("FindByID", ctx, int64(1)).Return(lease(1), nil)
	auditRepo.On("ListByLease", ctx, int64(1)).Return([]domain.ChangeRecord{}, nil)
	exporter.On("Render", mock.Anything).Return(ports.Attachment{Filename: "audit.csv"}, nil)
	notifier.On("SendMail", ctx, mock.Anything).Return(errors.New("smtp unreachable"))

	err := uc.ExportReview(ctx, ExportReviewRequest{
		LeaseID: 1,
		To:      []string{"reviewer@example.com"},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send export mail")
}
