package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CheckpointManager copies the budget file aside and restores it later.
type CheckpointManager struct {
	storage        *SQLiteStorage
	checkpointsDir string
	maxAuto        int
}

// CheckpointMetadata contains metadata about a checkpoint.
type CheckpointMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// CheckpointInfo represents information about a checkpoint for listing.
type CheckpointInfo struct {
	CreatedAt     time.Time
	ID            string
	Description   string
	FileSize      int64
	Expenses      int
	Categories    int
	SchemaVersion int
	IsAuto        bool
}

// Common errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointCorrupted = errors.New("checkpoint integrity check failed")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
	ErrInvalidCheckpointID = errors.New("invalid checkpoint ID: cannot contain path separators")
)

// NewCheckpointManager creates a checkpoint manager that keeps its files in
// a "checkpoints" directory next to the budget file.
func (s *SQLiteStorage) NewCheckpointManager() (*CheckpointManager, error) {
	dir := filepath.Join(filepath.Dir(s.dbPath), "checkpoints")

	// Ensure checkpoints directory exists
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve checkpoints directory: %w", err)
	}

	return &CheckpointManager{
		storage:        s,
		checkpointsDir: abs,
		maxAuto:        5,
	}, nil
}

// Create creates a new checkpoint with the given tag and description.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string) (*CheckpointInfo, error) {
	return cm.create(ctx, tag, description, false)
}

func (cm *CheckpointManager) create(ctx context.Context, tag, description string, isAuto bool) (*CheckpointInfo, error) {
	// Generate checkpoint ID if not provided
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", time.Now().Format("2006-01-02-150405"))
	}
	if err := validateCheckpointID(tag); err != nil {
		return nil, err
	}

	checkpointPath := cm.dataPath(tag)
	if _, err := os.Stat(checkpointPath); err == nil {
		return nil, ErrCheckpointExists
	}

	var (
		schemaVersion int
		rowCounts     map[string]int
	)
	err := cm.storage.withConn(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
			return fmt.Errorf("failed to get schema version: %w", err)
		}
		rowCounts = collectRowCounts(ctx, db)

		// Validate path to prevent SQL injection through the tag
		if strings.ContainsAny(checkpointPath, `'";`) {
			return fmt.Errorf("invalid destination path: contains forbidden characters")
		}
		// #nosec G201 - checkpointPath is validated above
		if _, err := db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", checkpointPath)); err != nil {
			return fmt.Errorf("failed to backup database: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat checkpoint: %w", err)
	}

	metadata := CheckpointMetadata{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      info.Size(),
		RowCounts:     rowCounts,
		SchemaVersion: schemaVersion,
		IsAuto:        isAuto,
	}

	if err := saveMetadata(cm.metadataPath(tag), metadata); err != nil {
		// Clean up checkpoint file on metadata save failure
		if rmErr := os.Remove(checkpointPath); rmErr != nil {
			slog.Error("failed to remove checkpoint file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Info("created checkpoint", "id", tag, "auto", isAuto)
	out := toInfo(metadata)
	return &out, nil
}

// List returns all checkpoints, newest first.
func (cm *CheckpointManager) List(_ context.Context) ([]CheckpointInfo, error) {
	entries, err := os.ReadDir(cm.checkpointsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := loadMetadata(filepath.Join(cm.checkpointsDir, entry.Name()))
		if err != nil {
			// Skip corrupted metadata files
			slog.Debug("skipping unreadable checkpoint metadata", "file", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, toInfo(*metadata))
	}

	sort.SliceStable(checkpoints, func(i, j int) bool {
		return checkpoints[i].CreatedAt.After(checkpoints[j].CreatedAt)
	})

	return checkpoints, nil
}

// Restore replaces the budget file with a checkpoint copy.
func (cm *CheckpointManager) Restore(ctx context.Context, checkpointID string) error {
	if err := validateCheckpointID(checkpointID); err != nil {
		return err
	}

	checkpointPath := cm.dataPath(checkpointID)
	if _, err := os.Stat(checkpointPath); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}

	if _, err := loadMetadata(cm.metadataPath(checkpointID)); err != nil {
		return fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}

	if err := verifyIntegrity(ctx, checkpointPath); err != nil {
		slog.Error("checkpoint failed integrity check", "id", checkpointID, "error", err)
		return ErrCheckpointCorrupted
	}

	// Keep the current file until the copy has succeeded
	dbPath := cm.storage.dbPath
	backupPath := dbPath + ".restore-backup"
	if err := copyFile(dbPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup current database: %w", err)
	}

	if err := copyFile(checkpointPath, dbPath); err != nil {
		// Attempt to restore backup on failure
		if restoreErr := copyFile(backupPath, dbPath); restoreErr != nil {
			slog.Error("failed to restore backup after checkpoint restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore checkpoint: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		slog.Error("failed to remove backup file", "error", err)
	}

	slog.Info("restored checkpoint", "id", checkpointID)
	return nil
}

// GetCheckpointInfo returns metadata for a single checkpoint.
func (cm *CheckpointManager) GetCheckpointInfo(_ context.Context, checkpointID string) (*CheckpointInfo, error) {
	if err := validateCheckpointID(checkpointID); err != nil {
		return nil, err
	}

	metadata, err := loadMetadata(cm.metadataPath(checkpointID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}

	info := toInfo(*metadata)
	return &info, nil
}

// Delete removes a checkpoint.
func (cm *CheckpointManager) Delete(_ context.Context, checkpointID string) error {
	if err := validateCheckpointID(checkpointID); err != nil {
		return err
	}

	checkpointPath := cm.dataPath(checkpointID)
	if _, err := os.Stat(checkpointPath); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}

	if err := os.Remove(checkpointPath); err != nil {
		return fmt.Errorf("failed to remove checkpoint file: %w", err)
	}

	if err := os.Remove(cm.metadataPath(checkpointID)); err != nil {
		// Non-fatal: metadata might not exist
		slog.Debug("failed to remove metadata file", "error", err, "id", checkpointID)
	}

	return nil
}

// AutoCheckpoint creates an automatic checkpoint named after prefix and
// prunes older automatic checkpoints.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, prefix string) (*CheckpointInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", prefix, time.Now().Format("2006-01-02-150405.000000000"))
	description := fmt.Sprintf("Automatic checkpoint before %s", prefix)

	info, err := cm.create(ctx, tag, description, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.cleanupOldAutoCheckpoints(ctx); err != nil {
		// Non-fatal: log but continue
		slog.Warn("failed to clean up old auto-checkpoints", "error", err)
	}

	return info, nil
}

func (cm *CheckpointManager) cleanupOldAutoCheckpoints(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	autoCount := 0
	for _, cp := range checkpoints {
		if !cp.IsAuto {
			continue
		}
		autoCount++
		if autoCount > cm.maxAuto {
			if err := cm.Delete(ctx, cp.ID); err != nil {
				// Non-fatal: continue cleanup
				slog.Debug("failed to delete old auto-checkpoint during cleanup", "error", err, "checkpoint", cp.ID)
			}
		}
	}

	return nil
}

func (cm *CheckpointManager) dataPath(id string) string {
	return filepath.Join(cm.checkpointsDir, id+".db")
}

func (cm *CheckpointManager) metadataPath(id string) string {
	return filepath.Join(cm.checkpointsDir, id+".meta.json")
}

func validateCheckpointID(id string) error {
	if strings.Contains(id, "/") || strings.Contains(id, "\\") || strings.Contains(id, "..") {
		return ErrInvalidCheckpointID
	}
	return nil
}

func toInfo(metadata CheckpointMetadata) CheckpointInfo {
	return CheckpointInfo{
		ID:            metadata.ID,
		CreatedAt:     metadata.CreatedAt,
		Description:   metadata.Description,
		FileSize:      metadata.FileSize,
		Expenses:      metadata.RowCounts["expenses"],
		Categories:    metadata.RowCounts["categories"],
		SchemaVersion: metadata.SchemaVersion,
		IsAuto:        metadata.IsAuto,
	}
}

func collectRowCounts(ctx context.Context, db *sql.DB) map[string]int {
	counts := make(map[string]int)

	// Use explicit queries for each table to avoid SQL injection
	tableQueries := map[string]string{
		"expenses":   "SELECT COUNT(*) FROM expenses",
		"categories": "SELECT COUNT(*) FROM categories",
	}

	for table, query := range tableQueries {
		var count int
		if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			// Table might not exist before initialization
			counts[table] = 0
			continue
		}
		counts[table] = count
	}

	return counts
}

func copyFile(src, dst string) error {
	// #nosec G304 - paths are built by the checkpoint manager
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	// Create temporary file first for atomic operation
	tmpDst := dst + ".tmp"
	// #nosec G304 - tmpDst is derived from dst above
	destination, err := os.Create(tmpDst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		if closeErr := destination.Close(); closeErr != nil {
			slog.Error("failed to close destination file after copy error", "error", closeErr)
		}
		if rmErr := os.Remove(tmpDst); rmErr != nil {
			slog.Error("failed to remove temporary file after copy error", "error", rmErr)
		}
		return err
	}

	if err := destination.Close(); err != nil {
		if removeErr := os.Remove(tmpDst); removeErr != nil {
			slog.Error("failed to remove temporary file after close error", "error", removeErr)
		}
		return err
	}

	// Atomic rename
	return os.Rename(tmpDst, dst)
}

func saveMetadata(path string, metadata CheckpointMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}

	// Write to temporary file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

func loadMetadata(path string) (*CheckpointMetadata, error) {
	// #nosec G304 - path is built by the checkpoint manager
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var metadata CheckpointMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}

	return &metadata, nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}

	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	return nil
}
