package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/persist"
)

func TestLegacyTextReplayEmptyCreatesFile(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "log.txt")

	var b = NewLegacyTextJSON[string](path, &fixedClock{})
	require.NoError(t, b.Replay(func(idxts.IdxTs, string) error { t.Fatal("unexpected push"); return nil }))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLegacyTextPublishThenReplay(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "log.txt")

	var b = NewLegacyTextJSON[string](path, &fixedClock{})
	require.NoError(t, b.Replay(func(idxts.IdxTs, string) error { return nil }))

	it1, err := b.Publish("hello")
	require.NoError(t, err)
	it2, err := b.Publish("world")
	require.NoError(t, err)

	var reopened = NewLegacyTextJSON[string](path, &fixedClock{})
	var got []string
	var idxs []uint64
	require.NoError(t, reopened.Replay(func(it idxts.IdxTs, e string) error {
		got = append(got, e)
		idxs = append(idxs, it.Index)
		return nil
	}))

	assert.Equal(t, []string{"hello", "world"}, got)
	assert.Equal(t, []uint64{it1.Index, it2.Index}, idxs)
}

func TestLegacyTextRejectsNonContiguousIndex(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\t100\t\"a\"\n3\t200\t\"b\"\n"), 0o644))

	var b = NewLegacyTextJSON[string](path, &fixedClock{})
	var err = b.Replay(func(idxts.IdxTs, string) error { return nil })

	require.Error(t, err)
	var indexErr *persist.InconsistentIndexError
	assert.ErrorAs(t, err, &indexErr)
}

func TestLegacyTextRejectsNonMonotonicTimestamp(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\t100\t\"a\"\n2\t100\t\"b\"\n"), 0o644))

	var b = NewLegacyTextJSON[string](path, &fixedClock{})
	var err = b.Replay(func(idxts.IdxTs, string) error { return nil })

	require.Error(t, err)
	var tsErr *persist.InconsistentTimestampError
	assert.ErrorAs(t, err, &tsErr)
}

func TestLegacyTextRejectsTruncatedTrailingLine(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\t100\t\"a\"\n2\t200\t\"b\""), 0o644))

	var b = NewLegacyTextJSON[string](path, &fixedClock{})
	var err = b.Replay(func(idxts.IdxTs, string) error { return nil })

	require.Error(t, err)
	var malformed *persist.MalformedEntryError
	assert.ErrorAs(t, err, &malformed)
}
