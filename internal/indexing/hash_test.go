package indexing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codegraf/codegraf/internal/model"
)

func newGateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.FileRecord{}))
	return db
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.cpp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestChangeGateFlagsUntrackedFileAsNeedsIndex(t *testing.T) {
	db := newGateTestDB(t)
	gate := NewChangeGate(db)
	path := writeTempFile(t, "int main() {}")

	decision, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, decision.NeedsIndex)
	assert.NotEmpty(t, decision.ContentHash)
}

func TestChangeGateSkipsUnchangedFileAfterRecord(t *testing.T) {
	db := newGateTestDB(t)
	gate := NewChangeGate(db)
	path := writeTempFile(t, "int main() {}")

	first, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, gate.Record(path, first.ContentHash, first.FastHash, 1, 0.9, "ast", false))

	second, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, second.NeedsIndex)
}

func TestChangeGateFlagsChangedContentAfterRecord(t *testing.T) {
	db := newGateTestDB(t)
	gate := NewChangeGate(db)
	path := writeTempFile(t, "int main() {}")

	first, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, gate.Record(path, first.ContentHash, first.FastHash, 1, 0.9, "ast", false))

	require.NoError(t, os.WriteFile(path, []byte("int main() { return 1; }"), 0o644))
	second, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.NeedsIndex)
}

func TestChangeGateReportsRemovedFile(t *testing.T) {
	db := newGateTestDB(t)
	gate := NewChangeGate(db)
	path := filepath.Join(t.TempDir(), "gone.cpp")

	decision, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, decision.Removed)
}

func TestChangeGateUntrackRemovesFileRecord(t *testing.T) {
	db := newGateTestDB(t)
	gate := NewChangeGate(db)
	path := writeTempFile(t, "int main() {}")

	decision, err := gate.Check(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, gate.Record(path, decision.ContentHash, decision.FastHash, 1, 0.9, "ast", false))
	require.NoError(t, gate.Untrack(path))

	var count int64
	db.Model(&model.FileRecord{}).Count(&count)
	assert.Zero(t, count)
}
