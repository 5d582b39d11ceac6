package lib

import (
	"log"
	"srs/src/models"
	"srs/src/types"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// QRSession is one browser login session awaiting approval from a phone.
type QRSession struct {
	Status    types.QRSessionStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	ExpiresAt time.Time             `json:"expires_at"`
	AdminData *QRAdminData          `json:"admin_data,omitempty"`
}

// QRAdminData is what the polling browser gets to see about the submitted
// identity: the claimed email alongside the admin record it resolved to.
type QRAdminData struct {
	ID             uint   `json:"id"`
	SubmittedEmail string `json:"submitted_email"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

// VerificationCode is the one-time code sent after a phone submits its identity.
type VerificationCode struct {
	Code           string       `json:"code"`
	SubmittedEmail string       `json:"submitted_email"`
	AdminID        uint         `json:"admin_id"`
	Admin          *models.User `json:"-"`
	ExpiresAt      time.Time    `json:"expires_at"`
}

type ttlEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTLStore is an in-memory key/value store with per-entry expiry. Eviction is
// scheduled as a one-shot job, with a lazy check on read in case the
// scheduler has not fired yet.
type TTLStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry[T]
}

func NewTTLStore[T any]() *TTLStore[T] {
	return &TTLStore[T]{entries: map[string]ttlEntry[T]{}}
}

func (s *TTLStore[T]) Put(key string, value T, ttl time.Duration) {
	entry := ttlEntry[T]{value: value}
	if ttl != 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	if ttl > 0 {
		expiresAt := entry.expiresAt
		_, err := CreateOneTimeCronJob(
			gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(expiresAt)),
			gocron.NewTask(func() {
				s.evict(key, expiresAt)
			}),
		)
		if err != nil {
			log.Printf("Could not schedule eviction for %s: %s\n", key, err.Error())
		}
	}
}

func (s *TTLStore[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	var zero T
	if !ok {
		return zero, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.evict(key, entry.expiresAt)
		return zero, false
	}
	return entry.value, true
}

func (s *TTLStore[T]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *TTLStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evict removes the entry only if it still carries the expiry the eviction
// was scheduled for. A later Put on the same key keeps its fresh entry.
func (s *TTLStore[T]) evict(key string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.Equal(expiresAt) {
		return
	}
	delete(s.entries, key)
}

var (
	qrSessions        *TTLStore[*QRSession]
	verificationCodes *TTLStore[*VerificationCode]
	sessionsOnce      sync.Once
)

func QRSessions() *TTLStore[*QRSession] {
	sessionsOnce.Do(initSessionStores)
	return qrSessions
}

func VerificationCodes() *TTLStore[*VerificationCode] {
	sessionsOnce.Do(initSessionStores)
	return verificationCodes
}

func initSessionStores() {
	qrSessions = NewTTLStore[*QRSession]()
	verificationCodes = NewTTLStore[*VerificationCode]()
}
