package lib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLStorePutGet(t *testing.T) {
	store := NewTTLStore[string]()
	store.Put("k1", "v1", 0)

	v, ok := store.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestTTLStoreLazyExpiry(t *testing.T) {
	store := NewTTLStore[string]()
	store.Put("k1", "v1", -time.Second)

	_, ok := store.Get("k1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestTTLStoreOverwriteKeepsFreshEntry(t *testing.T) {
	store := NewTTLStore[string]()
	store.Put("k1", "old", -time.Second)
	store.Put("k1", "new", 0)

	v, ok := store.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestTTLStoreEvictRespectsExpiry(t *testing.T) {
	store := NewTTLStore[string]()
	store.Put("k1", "v1", 0)

	// a stale eviction for an expiry the entry no longer carries is a no-op
	store.evict("k1", time.Now().Add(-time.Minute))

	_, ok := store.Get("k1")
	assert.True(t, ok)
}

func TestTTLStoreDelete(t *testing.T) {
	store := NewTTLStore[string]()
	store.Put("k1", "v1", 0)
	store.Delete("k1")

	_, ok := store.Get("k1")
	assert.False(t, ok)
}

func TestSessionStoresAreSingletons(t *testing.T) {
	assert.Same(t, QRSessions(), QRSessions())
	assert.Same(t, VerificationCodes(), VerificationCodes())

	QRSessions().Put("session-1", &QRSession{Status: "pending", CreatedAt: time.Now()}, 0)
	defer QRSessions().Delete("session-1")

	sess, ok := QRSessions().Get("session-1")
	assert.True(t, ok)
	assert.Equal(t, "pending", string(sess.Status))
}
