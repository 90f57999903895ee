package repository

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document domain.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID, country *string) ([]domain.Document, error) {
	args := m.Called(ctx, userID, country)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateExtractedData(ctx context.Context, id uuid.UUID, data map[string]any) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateExpiryDate(ctx context.Context, id uuid.UUID, expiryDate *time.Time) error {
	args := m.Called(ctx, id, expiryDate)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindExpiringBefore(ctx context.Context, before time.Time) ([]domain.Document, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUploadSessionRepository struct {
	mock.Mock
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) RecordPart(ctx context.Context, sessionID uuid.UUID, part domain.UploadPart) (bool, error) {
	args := m.Called(ctx, sessionID, part)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) ListParts(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.UploadPart), args.Error(1)
}

func (m *MockUploadSessionRepository) IncrementUploadedChunks(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockUploadSessionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.UploadSessionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPassportRepository struct {
	mock.Mock
}

func (m *MockPassportRepository) Upsert(ctx context.Context, passport domain.Passport) (*domain.Passport, error) {
	args := m.Called(ctx, passport)
	return args.Get(0).(*domain.Passport), args.Error(1)
}

func (m *MockPassportRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Passport, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Passport), args.Error(1)
}

func (m *MockPassportRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Passport, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Passport), args.Error(1)
}

func (m *MockPassportRepository) FindExpiringBefore(ctx context.Context, before time.Time) ([]domain.Passport, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Passport), args.Error(1)
}

func (m *MockPassportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ExistsSince(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, notificationType, reference, since)
	return args.Bool(0), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	documentRepo      *MockDocumentRepository
	uploadSessionRepo *MockUploadSessionRepository
	passportRepo      *MockPassportRepository
	notificationRepo  *MockNotificationRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		documentRepo:      &MockDocumentRepository{},
		uploadSessionRepo: &MockUploadSessionRepository{},
		passportRepo:      &MockPassportRepository{},
		notificationRepo:  &MockNotificationRepository{},
	}
}

func (m *MockUnitOfWork) DocumentRepo() port.DocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) PassportRepo() port.PassportRepository {
	return m.passportRepo
}

func (m *MockUnitOfWork) NotificationRepo() port.NotificationRepository {
	return m.notificationRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetDocumentRepoMock() *MockDocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) GetUploadSessionRepoMock() *MockUploadSessionRepository {
	return m.uploadSessionRepo
}

func (m *MockUnitOfWork) GetPassportRepoMock() *MockPassportRepository {
	return m.passportRepo
}

func (m *MockUnitOfWork) GetNotificationRepoMock() *MockNotificationRepository {
	return m.notificationRepo
}
