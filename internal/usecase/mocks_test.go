package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/relaunchapp/followup-service/internal/entity"
	"github.com/relaunchapp/followup-service/internal/infra/mail"
)

// MockProspectRepository
type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prospect), args.Error(1)
}

func (m *MockProspectRepository) ListDue(ctx context.Context, status string, stageCeiling int, due time.Time) ([]*entity.Prospect, error) {
	args := m.Called(ctx, status, stageCeiling, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Prospect), args.Error(1)
}

func (m *MockProspectRepository) Update(ctx context.Context, id string, update entity.ProspectUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockProspectRepository) Upsert(ctx context.Context, prospect *entity.Prospect) error {
	args := m.Called(ctx, prospect)
	return args.Error(0)
}

// MockTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id string) (*entity.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByUserAndStage(ctx context.Context, userID string, stage int) (*entity.Template, error) {
	args := m.Called(ctx, userID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *entity.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

// MockHistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListByProspect(ctx context.Context, prospectID string) ([]*entity.HistoryEntry, error) {
	args := m.Called(ctx, prospectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) FindRecent(ctx context.Context, prospectID string, since time.Time) (*entity.HistoryEntry, error) {
	args := m.Called(ctx, prospectID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) Insert(ctx context.Context, entry *entity.HistoryEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

// MockSettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByUserID(ctx context.Context, userID string) (*entity.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsRepository) ListAll(ctx context.Context) ([]*entity.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Settings), args.Error(1)
}

// MockJobLogRepository
type MockJobLogRepository struct {
	mock.Mock
}

func (m *MockJobLogRepository) Insert(ctx context.Context, log *entity.ScheduledJobLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// MockTransport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, to, subject, html string) (string, error) {
	args := m.Called(ctx, to, subject, html)
	return args.String(0), args.Error(1)
}

// MockTransportSelector
type MockTransportSelector struct {
	mock.Mock
}

func (m *MockTransportSelector) ForSettings(settings *entity.Settings) (mail.Transport, error) {
	args := m.Called(settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(mail.Transport), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Execute(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DispatchResult), args.Error(1)
}
