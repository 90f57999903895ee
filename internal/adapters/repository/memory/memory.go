// Package memory holds in-process repositories used by tests and local runs.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

// Store keeps every table in memory behind one mutex
type Store struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]domain.UploadSession
	parts         map[uuid.UUID]map[int]domain.UploadPart
	documents     map[uuid.UUID]domain.Document
	passports     map[uuid.UUID]domain.Passport
	notifications []domain.Notification
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		sessions:  make(map[uuid.UUID]domain.UploadSession),
		parts:     make(map[uuid.UUID]map[int]domain.UploadPart),
		documents: make(map[uuid.UUID]domain.Document),
		passports: make(map[uuid.UUID]domain.Passport),
	}
}

type snapshot struct {
	sessions      map[uuid.UUID]domain.UploadSession
	parts         map[uuid.UUID]map[int]domain.UploadPart
	documents     map[uuid.UUID]domain.Document
	passports     map[uuid.UUID]domain.Passport
	notifications []domain.Notification
}

func (s *Store) snapshot() snapshot {
	parts := make(map[uuid.UUID]map[int]domain.UploadPart, len(s.parts))
	for id, p := range s.parts {
		parts[id] = maps.Clone(p)
	}
	return snapshot{
		sessions:      maps.Clone(s.sessions),
		parts:         parts,
		documents:     maps.Clone(s.documents),
		passports:     maps.Clone(s.passports),
		notifications: slices.Clone(s.notifications),
	}
}

func (s *Store) restore(snap snapshot) {
	s.sessions = snap.sessions
	s.parts = snap.parts
	s.documents = snap.documents
	s.passports = snap.passports
	s.notifications = snap.notifications
}

// Notifications returns a copy of the stored notifications
func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notifications)
}

type unitOfWork struct {
	store *Store
	inTx  bool
}

// NewUnitOfWork returns a port.UnitOfWork whose transactions hold the store lock
func NewUnitOfWork(store *Store) port.UnitOfWork {
	return &unitOfWork{store: store}
}

// Execute runs fn under the store lock and restores the previous state when fn fails
func (u *unitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.inTx {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(&unitOfWork{store: u.store, inTx: true}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *unitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return &uploadSessionRepository{table{store: u.store, inTx: u.inTx}}
}

func (u *unitOfWork) DocumentRepo() port.DocumentRepository {
	return &documentRepository{table{store: u.store, inTx: u.inTx}}
}

func (u *unitOfWork) PassportRepo() port.PassportRepository {
	return &passportRepository{table{store: u.store, inTx: u.inTx}}
}

func (u *unitOfWork) NotificationRepo() port.NotificationRepository {
	return &notificationRepository{table{store: u.store, inTx: u.inTx}}
}

type table struct {
	store *Store
	inTx  bool
}

// lock takes the store mutex unless the caller already holds it through Execute
func (t table) lock() func() {
	if t.inTx {
		return func() {}
	}
	t.store.mu.Lock()
	return t.store.mu.Unlock
}

type uploadSessionRepository struct{ table }

func (r *uploadSessionRepository) Create(_ context.Context, session domain.UploadSession) error {
	defer r.lock()()
	if _, ok := r.store.sessions[session.ID]; ok {
		return domain.ErrInvalidSessionState
	}
	now := time.Now()
	session.CreatedAt, session.UpdatedAt = now, now
	r.store.sessions[session.ID] = session
	return nil
}

func (r *uploadSessionRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	defer r.lock()()
	session, ok := r.store.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *uploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	return r.FindByID(ctx, id)
}

func (r *uploadSessionRepository) RecordPart(_ context.Context, sessionID uuid.UUID, part domain.UploadPart) (bool, error) {
	defer r.lock()()
	if _, ok := r.store.sessions[sessionID]; !ok {
		return false, domain.ErrSessionNotFound
	}
	parts, ok := r.store.parts[sessionID]
	if !ok {
		parts = make(map[int]domain.UploadPart)
		r.store.parts[sessionID] = parts
	}
	if _, exists := parts[part.PartNumber]; exists {
		return false, nil
	}
	parts[part.PartNumber] = part
	return true, nil
}

func (r *uploadSessionRepository) ListParts(_ context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error) {
	defer r.lock()()
	parts := make([]domain.UploadPart, 0, len(r.store.parts[sessionID]))
	for _, part := range r.store.parts[sessionID] {
		parts = append(parts, part)
	}
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})
	return parts, nil
}

func (r *uploadSessionRepository) IncrementUploadedChunks(_ context.Context, id uuid.UUID) (int, error) {
	defer r.lock()()
	session, ok := r.store.sessions[id]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	if session.UploadedChunks >= session.TotalChunks {
		return 0, domain.ErrInvalidSessionState
	}
	session.UploadedChunks++
	session.UpdatedAt = time.Now()
	r.store.sessions[id] = session
	return session.UploadedChunks, nil
}

func (r *uploadSessionRepository) TransitionStatus(_ context.Context, id uuid.UUID, from, to domain.UploadSessionStatus) error {
	defer r.lock()()
	if !domain.CanTransition(from, to) {
		return domain.ErrInvalidSessionState
	}
	session, ok := r.store.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if session.Status != from {
		return domain.ErrInvalidSessionState
	}
	session.Status = to
	session.UpdatedAt = time.Now()
	r.store.sessions[id] = session
	return nil
}

func (r *uploadSessionRepository) FindAllExpired(_ context.Context, now time.Time) ([]domain.UploadSession, error) {
	defer r.lock()()
	var sessions []domain.UploadSession
	for _, session := range r.store.sessions {
		if session.Status == domain.UploadSessionStatusInProgress && session.ExpiresAt.Before(now) {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

func (r *uploadSessionRepository) DeleteFinishedBefore(_ context.Context, before time.Time) (int64, error) {
	defer r.lock()()
	var deleted int64
	for id, session := range r.store.sessions {
		if session.Status.IsTerminal() && session.UpdatedAt.Before(before) {
			delete(r.store.sessions, id)
			delete(r.store.parts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *uploadSessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.lock()()
	if _, ok := r.store.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.store.sessions, id)
	delete(r.store.parts, id)
	return nil
}

type documentRepository struct{ table }

func (r *documentRepository) Create(_ context.Context, document domain.Document) error {
	defer r.lock()()
	now := time.Now()
	if document.UploadedAt.IsZero() {
		document.UploadedAt = now
	}
	document.UpdatedAt = now
	r.store.documents[document.ID] = document
	return nil
}

func (r *documentRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	defer r.lock()()
	document, ok := r.store.documents[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &document, nil
}

func (r *documentRepository) ListByUser(_ context.Context, userID uuid.UUID, country *string) ([]domain.Document, error) {
	defer r.lock()()
	documents := make([]domain.Document, 0)
	for _, document := range r.store.documents {
		if document.UserID != userID {
			continue
		}
		if country != nil && (document.Country == nil || *document.Country != *country) {
			continue
		}
		documents = append(documents, document)
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].UploadedAt.After(documents[j].UploadedAt)
	})
	return documents, nil
}

func (r *documentRepository) UpdateExtractedData(_ context.Context, id uuid.UUID, data map[string]any) error {
	defer r.lock()()
	document, ok := r.store.documents[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	document.ExtractedData = maps.Clone(data)
	document.UpdatedAt = time.Now()
	r.store.documents[id] = document
	return nil
}

func (r *documentRepository) UpdateExpiryDate(_ context.Context, id uuid.UUID, expiryDate *time.Time) error {
	defer r.lock()()
	document, ok := r.store.documents[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	document.ExpiryDate = expiryDate
	document.UpdatedAt = time.Now()
	r.store.documents[id] = document
	return nil
}

func (r *documentRepository) FindExpiringBefore(_ context.Context, before time.Time) ([]domain.Document, error) {
	defer r.lock()()
	documents := make([]domain.Document, 0)
	for _, document := range r.store.documents {
		if document.ExpiryDate != nil && document.ExpiryDate.Before(before) {
			documents = append(documents, document)
		}
	}
	return documents, nil
}

func (r *documentRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.lock()()
	if _, ok := r.store.documents[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(r.store.documents, id)
	return nil
}

type passportRepository struct{ table }

func (r *passportRepository) Upsert(_ context.Context, passport domain.Passport) (*domain.Passport, error) {
	defer r.lock()()
	if passport.DocumentID != nil {
		if _, ok := r.store.documents[*passport.DocumentID]; !ok {
			return nil, domain.ErrDocumentNotFound
		}
	}
	now := time.Now()
	for id, existing := range r.store.passports {
		if existing.UserID == passport.UserID && existing.PassportNumber == passport.PassportNumber {
			existing.IssueDate = passport.IssueDate
			existing.ExpiryDate = passport.ExpiryDate
			existing.IssuingCountry = passport.IssuingCountry
			existing.DocumentID = passport.DocumentID
			existing.UpdatedAt = now
			r.store.passports[id] = existing
			return &existing, nil
		}
	}
	passport.CreatedAt, passport.UpdatedAt = now, now
	r.store.passports[passport.ID] = passport
	return &passport, nil
}

func (r *passportRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Passport, error) {
	defer r.lock()()
	passport, ok := r.store.passports[id]
	if !ok {
		return nil, domain.ErrPassportNotFound
	}
	return &passport, nil
}

func (r *passportRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Passport, error) {
	defer r.lock()()
	passports := make([]domain.Passport, 0)
	for _, passport := range r.store.passports {
		if passport.UserID == userID {
			passports = append(passports, passport)
		}
	}
	sort.Slice(passports, func(i, j int) bool {
		return passports[i].ExpiryDate.After(passports[j].ExpiryDate)
	})
	return passports, nil
}

func (r *passportRepository) FindExpiringBefore(_ context.Context, before time.Time) ([]domain.Passport, error) {
	defer r.lock()()
	passports := make([]domain.Passport, 0)
	for _, passport := range r.store.passports {
		if passport.ExpiryDate.Before(before) {
			passports = append(passports, passport)
		}
	}
	return passports, nil
}

func (r *passportRepository) Delete(_ context.Context, id uuid.UUID) error {
	defer r.lock()()
	if _, ok := r.store.passports[id]; !ok {
		return domain.ErrPassportNotFound
	}
	delete(r.store.passports, id)
	return nil
}

type notificationRepository struct{ table }

func (r *notificationRepository) Create(_ context.Context, notification domain.Notification) error {
	defer r.lock()()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	r.store.notifications = append(r.store.notifications, notification)
	return nil
}

func (r *notificationRepository) ExistsSince(_ context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error) {
	defer r.lock()()
	for _, n := range r.store.notifications {
		if n.UserID == userID && n.Type == notificationType && n.Reference == reference && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
