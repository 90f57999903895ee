package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultChunkSize is the fixed size of every chunk except the last one
	DefaultChunkSize int64 = 5 * 1024 * 1024
	// MaxFileSize is the largest file accepted by both upload paths
	MaxFileSize int64 = 100 * 1024 * 1024
	// SessionTTL is the lifetime of an upload session
	SessionTTL = 24 * time.Hour
)

// UploadSessionStatus represents the status of an upload session
type UploadSessionStatus string

const (
	UploadSessionStatusInitializing UploadSessionStatus = "initializing"
	UploadSessionStatusInProgress   UploadSessionStatus = "in_progress"
	UploadSessionStatusCompleting   UploadSessionStatus = "completing"
	UploadSessionStatusCompleted    UploadSessionStatus = "completed"
	UploadSessionStatusAborted      UploadSessionStatus = "aborted"
	UploadSessionStatusExpired      UploadSessionStatus = "expired"
)

// IsTerminal reports whether no transition leaves the status
func (s UploadSessionStatus) IsTerminal() bool {
	switch s {
	case UploadSessionStatusCompleted, UploadSessionStatusAborted, UploadSessionStatusExpired:
		return true
	case UploadSessionStatusInitializing, UploadSessionStatusInProgress, UploadSessionStatusCompleting:
		return false
	default:
		return true
	}
}

// CanTransition reports whether a session may move from one status to another
func CanTransition(from, to UploadSessionStatus) bool {
	switch from {
	case UploadSessionStatusInitializing:
		return to == UploadSessionStatusInProgress || to == UploadSessionStatusAborted
	case UploadSessionStatusInProgress:
		return to == UploadSessionStatusCompleting || to == UploadSessionStatusAborted || to == UploadSessionStatusExpired
	case UploadSessionStatusCompleting:
		return to == UploadSessionStatusCompleted || to == UploadSessionStatusAborted
	case UploadSessionStatusCompleted, UploadSessionStatusAborted, UploadSessionStatusExpired:
		return false
	default:
		return false
	}
}

// UploadSession represents an upload session
type UploadSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	FileName         string
	TotalSize        int64
	ChunkSize        int64
	TotalChunks      int
	Category         string
	Country          *string
	StorageKey       string
	ProviderUploadID string
	UploadedChunks   int
	Status           UploadSessionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ExpiresAt        time.Time
}

// IsExpiredAt reports whether the session can no longer accept writes at now
func (s *UploadSession) IsExpiredAt(now time.Time) bool {
	return s.Status == UploadSessionStatusExpired || now.After(s.ExpiresAt)
}

// ExpectedChunkSize returns the exact length chunk index must have
func (s *UploadSession) ExpectedChunkSize(index int) int64 {
	if index < 0 || index >= s.TotalChunks {
		return 0
	}
	if index == s.TotalChunks-1 {
		return s.TotalSize - int64(s.TotalChunks-1)*s.ChunkSize
	}
	return s.ChunkSize
}

// Progress returns uploaded chunks over total chunks
func (s *UploadSession) Progress() float64 {
	if s.TotalChunks == 0 {
		return 0
	}
	return float64(s.UploadedChunks) / float64(s.TotalChunks)
}

// ChunkCount returns ceil(totalSize / chunkSize)
func ChunkCount(totalSize, chunkSize int64) int {
	if totalSize <= 0 || chunkSize <= 0 {
		return 0
	}
	return int((totalSize + chunkSize - 1) / chunkSize)
}

// ProgressPercent rounds a progress fraction to a whole percentage
func ProgressPercent(progress float64) int {
	return int(math.Round(progress * 100))
}

// UploadPart represents a stored part of a multipart upload
type UploadPart struct {
	PartNumber int
	ETag       string
	SizeBytes  int64
}

// PartTable holds one slot per chunk index, filled in any order
type PartTable []UploadPart

// NewPartTable places parts in their chunk slot, ignoring numbers outside the plan
func NewPartTable(totalChunks int, parts []UploadPart) PartTable {
	table := make(PartTable, totalChunks)
	for _, part := range parts {
		index := part.PartNumber - 1
		if index < 0 || index >= totalChunks {
			continue
		}
		table[index] = part
	}
	return table
}

// Has reports whether chunk index is recorded
func (t PartTable) Has(index int) bool {
	return index >= 0 && index < len(t) && t[index].ETag != ""
}

// Missing returns chunk indexes with no recorded part
func (t PartTable) Missing() []int {
	missing := make([]int, 0)
	for i := range t {
		if !t.Has(i) {
			missing = append(missing, i)
		}
	}
	return missing
}

// Complete reports whether every slot is filled
func (t PartTable) Complete() bool {
	return len(t.Missing()) == 0
}

// Ordered returns the recorded parts by ascending part number
func (t PartTable) Ordered() []UploadPart {
	parts := make([]UploadPart, 0, len(t))
	for i := range t {
		if t.Has(i) {
			parts = append(parts, t[i])
		}
	}
	return parts
}

// InitUploadRequest carries what a client declares when opening a session
type InitUploadRequest struct {
	UserID    uuid.UUID
	FileName  string
	TotalSize int64
	Category  string
	Country   *string
}

// UploadPlan is the chunking contract returned to the client
type UploadPlan struct {
	SessionID  uuid.UUID
	ChunkCount int
	ChunkSize  int64
	ExpiresAt  time.Time
}

// ChunkReceipt is returned for every accepted chunk
type ChunkReceipt struct {
	ChunkIndex     int
	UploadedChunks int
	TotalChunks    int
	Progress       float64
}

// SessionProgress describes a session for resumption
type SessionProgress struct {
	Session       UploadSession
	MissingChunks []int
}

// DirectUploadRequest carries a small file uploaded in one shot
type DirectUploadRequest struct {
	UserID   uuid.UUID
	FileName string
	Data     []byte
	MimeType string
	Category string
	Country  *string
}
