package maskedit

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrFileNotFound is returned by FileStore.Get for unknown or expired IDs.
var ErrFileNotFound = errors.New("maskedit: mask file not found")

// FileStore defaults.
const (
	// DefaultMaxFileAge is how long a stored payload stays retrievable.
	DefaultMaxFileAge = 10 * time.Minute

	// DefaultMaxFiles caps resident payloads; storing beyond it evicts
	// oldest-first.
	DefaultMaxFiles = 64
)

// MaskFile is one staged export payload.
type MaskFile struct {
	ID       string
	Payload  []byte
	Metadata Metadata
	StoredAt time.Time
}

// FileStoreStats summarizes registry occupancy.
type FileStoreStats struct {
	TotalFiles   int
	ExpiredFiles int
	TotalBytes   int
	MaxFiles     int
	MaxAge       time.Duration
}

// FileStore is a short-lived in-memory staging area bridging exported mask
// payloads to the external upload step. It is NOT persistent storage:
// entries expire after a maximum age and the registry holds at most a
// fixed number of files, evicting oldest-first under pressure.
//
// A FileStore is an explicitly constructed, disposable service instance —
// there is no package-level registry. It is safe for concurrent use.
type FileStore struct {
	mu      sync.Mutex
	files   map[string]*MaskFile
	order   []string // insertion order, oldest first
	maxAge  time.Duration
	maxFile int
	now     func() time.Time
	newID   func() string
}

// FileStoreOption configures a FileStore during creation.
type FileStoreOption func(*FileStore)

// WithMaxAge sets the retention period for stored payloads.
func WithMaxAge(d time.Duration) FileStoreOption {
	return func(s *FileStore) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithMaxFiles caps the number of resident payloads.
func WithMaxFiles(n int) FileStoreOption {
	return func(s *FileStore) {
		if n > 0 {
			s.maxFile = n
		}
	}
}

// WithClock injects the time source. Tests pin expiry with this.
func WithClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewFileStore creates an empty registry with the default limits.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		files:   make(map[string]*MaskFile),
		maxAge:  DefaultMaxFileAge,
		maxFile: DefaultMaxFiles,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store registers a payload and returns its file ID.
// If the registry is full, the oldest entries are evicted first.
func (s *FileStore) Store(payload []byte, meta Metadata) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	s.files[id] = &MaskFile{
		ID:       id,
		Payload:  payload,
		Metadata: meta,
		StoredAt: s.now(),
	}
	s.order = append(s.order, id)

	for len(s.files) > s.maxFile && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		if _, ok := s.files[oldest]; ok {
			delete(s.files, oldest)
			Logger().Debug("maskedit: file registry evicted oldest entry", "id", oldest)
		}
	}
	return id
}

// Get returns the stored file for id. Expired entries behave as missing
// and are removed on access.
func (s *FileStore) Get(id string) (*MaskFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return nil, ErrFileNotFound
	}
	if s.expired(f) {
		delete(s.files, id)
		return nil, ErrFileNotFound
	}
	return f, nil
}

// Remove deletes the entry for id, reporting whether it existed.
func (s *FileStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return false
	}
	delete(s.files, id)
	return true
}

// CleanupExpired removes all entries past the maximum age and returns how
// many were dropped. Hosts call this periodically.
func (s *FileStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, f := range s.files {
		if s.expired(f) {
			delete(s.files, id)
			removed++
		}
	}
	if removed > 0 {
		Logger().Debug("maskedit: file registry cleanup", "removed", removed)
	}
	return removed
}

// CleanupAll removes every entry and returns how many were dropped.
func (s *FileStore) CleanupAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.files)
	s.files = make(map[string]*MaskFile)
	s.order = s.order[:0]
	return removed
}

// Statistics returns current occupancy, counting entries already past
// their expiry but not yet cleaned up.
func (s *FileStore) Statistics() FileStoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := FileStoreStats{
		TotalFiles: len(s.files),
		MaxFiles:   s.maxFile,
		MaxAge:     s.maxAge,
	}
	for _, f := range s.files {
		stats.TotalBytes += len(f.Payload)
		if s.expired(f) {
			stats.ExpiredFiles++
		}
	}
	return stats
}

func (s *FileStore) expired(f *MaskFile) bool {
	return s.now().Sub(f.StoredAt) > s.maxAge
}
