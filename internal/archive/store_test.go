// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vullab/rps-export/pkg/types"
)

const testSession = `{"version":"3.0","player2_bot_strategy":"nash","player2_botid":"bot-1","rounds":[{"game_id":"g7"},{"game_id":"g7"}]}`

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	require.NoError(t, os.Mkdir(dataDir, 0o755))

	cfg := types.ArchiveConfig{
		DataDir: dataDir,
		Schema:  types.SchemaV3,
		DBPath:  filepath.Join(tmp, "sessions.db"),
	}
	store, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dataDir
}

func TestIngest(t *testing.T) {
	store, dataDir := testStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "g7.json"), []byte(testSession), 0o644))

	var log bytes.Buffer
	sum, err := store.Ingest(context.Background(), &log)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Indexed)
	assert.Equal(t, 0, sum.Skipped)
	assert.False(t, sum.HasFailures())
	assert.Contains(t, log.String(), "indexed: g7.json")

	rec, err := store.Session(context.Background(), "g7.json")
	require.NoError(t, err)
	assert.Equal(t, "g7", rec.GameID)
	assert.Equal(t, 2, rec.RoundCount)
	assert.Equal(t, "nash", rec.BotStrategy)
	assert.Equal(t, types.SchemaV3, rec.Schema)
}

func TestIngest_SkipsUnchanged(t *testing.T) {
	store, dataDir := testStore(t)
	path := filepath.Join(dataDir, "g7.json")
	require.NoError(t, os.WriteFile(path, []byte(testSession), 0o644))

	_, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	var log bytes.Buffer
	sum, err := store.Ingest(context.Background(), &log)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Indexed)
	assert.Equal(t, 1, sum.Skipped)
	assert.Contains(t, log.String(), "skipped: g7.json")

	// Touch the file with a new timestamp to force re-ingestion.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	sum, err = store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Indexed)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "re-ingestion should replace, not duplicate")
}

func TestIngest_CountsFailures(t *testing.T) {
	store, dataDir := testStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "good.json"), []byte(testSession), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "mangled.json"), []byte("{broken"), 0o644))

	var log bytes.Buffer
	sum, err := store.Ingest(context.Background(), &log)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Indexed)
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, sum.HasFailures())
	assert.Contains(t, log.String(), "failed:  mangled.json")
}

func TestIngest_ExcludesMarkedFiles(t *testing.T) {
	store, dataDir := testStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "run_TEST.json"), []byte(testSession), 0o644))

	sum, err := store.Ingest(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, sum.Indexed+sum.Skipped+sum.Failed)
}

func TestNewStore_InvalidConfig(t *testing.T) {
	_, err := NewStore(types.ArchiveConfig{DataDir: "/does/not/exist", Schema: types.SchemaV1})
	require.Error(t, err)
}
