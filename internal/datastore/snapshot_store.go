package datastore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/common"
	"github.com/aleister1102/futwatch/internal/models"
	"github.com/aleister1102/futwatch/internal/urlhandler"
)

const snapshotTimeLayout = "20060102T150405.000"

// SnapshotStore keeps per-target snapshot history on disk. File names are
// UTC timestamps so lexicographic order is chronological order.
type SnapshotStore struct {
	baseDir   string
	retention int
	logger    zerolog.Logger
}

// NewSnapshotStore creates a snapshot store rooted at baseDir. At most
// retention snapshots are kept per target, oldest pruned first.
func NewSnapshotStore(baseDir string, retention int, logger zerolog.Logger) (*SnapshotStore, error) {
	if retention < 2 {
		return nil, common.NewValidationError("retention", retention, "retention must keep at least current and previous snapshots")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, common.WrapErrorf(err, "failed to create snapshot directory '%s'", baseDir)
	}
	return &SnapshotStore{
		baseDir:   baseDir,
		retention: retention,
		logger:    logger.With().Str("module", "SnapshotStore").Logger(),
	}, nil
}

// Save writes one snapshot and prunes history beyond the retention limit.
func (ss *SnapshotStore) Save(snapshot models.Snapshot) error {
	dir := ss.targetDir(snapshot.Target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return common.WrapErrorf(err, "failed to create snapshot directory for target '%s'", snapshot.Target)
	}

	name := snapshot.CapturedAt.UTC().Format(snapshotTimeLayout) + extensionFor(snapshot.Kind)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, snapshot.Raw, 0644); err != nil {
		return common.WrapErrorf(err, "failed to write snapshot '%s'", path)
	}

	if err := ss.prune(dir); err != nil {
		ss.logger.Warn().Err(err).Str("target", snapshot.Target).Msg("Failed to prune snapshot history")
	}
	return nil
}

// Latest returns the most recent snapshot for a target, or common.ErrNotFound
// when no history exists yet.
func (ss *SnapshotStore) Latest(target string) (models.Snapshot, error) {
	names, err := ss.listSnapshots(ss.targetDir(target))
	if err != nil {
		return models.Snapshot{}, err
	}
	if len(names) == 0 {
		return models.Snapshot{}, common.ErrNotFound
	}
	return ss.readSnapshot(target, names[len(names)-1])
}

// Previous returns the snapshot before the latest one, or common.ErrNotFound
// when fewer than two snapshots exist.
func (ss *SnapshotStore) Previous(target string) (models.Snapshot, error) {
	names, err := ss.listSnapshots(ss.targetDir(target))
	if err != nil {
		return models.Snapshot{}, err
	}
	if len(names) < 2 {
		return models.Snapshot{}, common.ErrNotFound
	}
	return ss.readSnapshot(target, names[len(names)-2])
}

// History returns the number of stored snapshots for a target.
func (ss *SnapshotStore) History(target string) (int, error) {
	names, err := ss.listSnapshots(ss.targetDir(target))
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

func (ss *SnapshotStore) targetDir(target string) string {
	return filepath.Join(ss.baseDir, urlhandler.SanitizeFilename(target))
}

func (ss *SnapshotStore) listSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read snapshot directory '%s'", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (ss *SnapshotStore) readSnapshot(target, name string) (models.Snapshot, error) {
	path := filepath.Join(ss.targetDir(target), name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, common.WrapErrorf(err, "failed to read snapshot '%s'", path)
	}

	stamp := strings.TrimSuffix(strings.TrimSuffix(name, ".json"), ".txt")
	capturedAt, err := time.Parse(snapshotTimeLayout, stamp)
	if err != nil {
		return models.Snapshot{}, common.WrapErrorf(err, "malformed snapshot file name '%s'", name)
	}

	kind := models.ContentText
	if strings.HasSuffix(name, ".json") {
		kind = models.ContentJSON
	}

	return models.Snapshot{
		Target:     target,
		CapturedAt: capturedAt.UTC(),
		Kind:       kind,
		Raw:        raw,
	}, nil
}

// prune removes the oldest snapshots beyond the retention limit
func (ss *SnapshotStore) prune(dir string) error {
	names, err := ss.listSnapshots(dir)
	if err != nil {
		return err
	}
	for len(names) > ss.retention {
		if err := os.Remove(filepath.Join(dir, names[0])); err != nil {
			return common.WrapErrorf(err, "failed to remove snapshot '%s'", names[0])
		}
		names = names[1:]
	}
	return nil
}

func extensionFor(kind models.ContentKind) string {
	if kind == models.ContentJSON {
		return ".json"
	}
	return ".txt"
}
