// SPDX-License-Identifier: MIT

package fingerprint

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprint_CaseAndWhitespaceInsensitive(t *testing.T) {
	a := Fingerprint("Hello  World", "https://Example.com/a/", "Some content here")
	b := Fingerprint("hello world", "https://example.com/a", "some   content here")
	require.Equal(t, a, b)
}

func TestFingerprint_DifferentContentDiffers(t *testing.T) {
	a := Fingerprint("title", "https://example.com/a", "content one")
	b := Fingerprint("title", "https://example.com/a", "content two")
	require.NotEqual(t, a, b)
}

func TestCanonicalizeURL_TrailingSlashAndFragment(t *testing.T) {
	require.Equal(t,
		CanonicalizeURL("https://Example.com/path"),
		CanonicalizeURL("https://example.com/path/#section"),
	)
}

func TestMemoryStore_SeenOrInsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(true)

	outcome, err := s.SeenOrInsert(ctx, "hash-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Fresh, outcome)

	outcome, err = s.SeenOrInsert(ctx, "hash-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Duplicate, outcome)
}

func TestMemoryStore_DisabledNeverDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(false)

	for i := 0; i < 3; i++ {
		outcome, err := s.SeenOrInsert(ctx, "hash-1", time.Minute)
		require.NoError(t, err)
		require.Equal(t, Fresh, outcome)
	}
	require.Equal(t, 0, s.Count())
}

func TestMemoryStore_ExpiredEntryIsPurged(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(true)
	s.now = func() time.Time { return time.Unix(1000, 0) }

	_, err := s.SeenOrInsert(ctx, "hash-1", time.Second)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Unix(1002, 0) }
	purged, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, purged)
	require.Equal(t, 0, s.Count())
}
