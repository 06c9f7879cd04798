// Package save implements the persistence coordinator: versioned snapshot
// serialization, save-conflict detection and fail-closed loading over a
// pluggable storage backend.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/engine"
)

// SchemaVersion is the current snapshot schema. Older versions go through
// an explicit migration; unknown versions fail closed as corrupt.
const SchemaVersion = 2

// DefaultSlot is the save slot used by the single-save game.
const DefaultSlot = "default"

var (
	// ErrNotFound indicates no saved game exists in the slot.
	ErrNotFound = errors.New("save: no saved game")

	// ErrSaveConflict indicates a different game's save already occupies the
	// slot; the caller must confirm the overwrite explicitly.
	ErrSaveConflict = errors.New("save: existing save would be overwritten")

	// ErrCorruptSnapshot indicates the stored snapshot failed structural
	// parsing or carries an unknown schema version. The original bytes are
	// preserved in storage for diagnostics.
	ErrCorruptSnapshot = errors.New("save: snapshot is corrupt or incompatible")
)

// Store is the narrow storage contract the coordinator writes through.
// Implementations must not retain the payload slice after the call returns.
type Store interface {
	WriteSave(ctx context.Context, slot string, sessionID string, version int, payload []byte) error
	ReadSave(ctx context.Context, slot string) (payload []byte, found bool, err error)
	SaveSessionID(ctx context.Context, slot string) (sessionID string, found bool, err error)
	DeleteSave(ctx context.Context, slot string) error
}

// Envelope wraps a session snapshot with its schema version and identity.
type Envelope struct {
	Version    int                    `json:"version"`
	SnapshotID string                 `json:"snapshot_id"`
	SavedAt    time.Time              `json:"saved_at"`
	Session    engine.SessionSnapshot `json:"session"`
}

// Coordinator serializes sessions to a Store and restores them, detecting
// conflicts and corrupt snapshots. All operations share one mutex so a load
// can never observe a half-written save of the same slot.
type Coordinator struct {
	mu     sync.Mutex
	store  Store
	rules  config.Rules
	slot   string
	logger *log.Logger

	overwriteOK bool

	// Last-write-wins queue for async saves: only the newest pending
	// envelope is ever written.
	pending *Envelope
	writing bool
	flushed chan struct{}
}

// NewCoordinator creates a coordinator bound to one save slot.
func NewCoordinator(store Store, rules config.Rules, slot string, logger *log.Logger) *Coordinator {
	if slot == "" {
		slot = DefaultSlot
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		store:  store,
		rules:  rules,
		slot:   slot,
		logger: logger,
	}
}

// HasSavedGame reports whether the slot already holds a save.
func (c *Coordinator) HasSavedGame(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found, err := c.store.SaveSessionID(ctx, c.slot)
	return found, err
}

// ConfirmOverwrite authorizes the next save to replace a conflicting one.
// The front end calls this after the player confirms the save-warning
// prompt; how that prompt looks is not the engine's concern.
func (c *Coordinator) ConfirmOverwrite() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overwriteOK = true
}

// Save serializes the snapshot and writes it to the slot. If the slot holds
// a save from a different session and no overwrite has been confirmed, the
// save is refused with ErrSaveConflict and storage is untouched.
func (c *Coordinator) Save(ctx context.Context, snap engine.SessionSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkConflictLocked(ctx, snap.SessionID); err != nil {
		return err
	}
	env := newEnvelope(snap)
	return c.writeLocked(ctx, env)
}

// SaveAsync queues a save without blocking gameplay. A newer queued save
// supersedes an unwritten older one (last-write-wins); conflicts follow the
// same rule as Save and are reported through the returned channel.
func (c *Coordinator) SaveAsync(ctx context.Context, snap engine.SessionSnapshot) <-chan error {
	result := make(chan error, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkConflictLocked(ctx, snap.SessionID); err != nil {
		result <- err
		return result
	}

	env := newEnvelope(snap)
	c.pending = &env
	if c.writing {
		// The in-flight writer picks up the superseding snapshot.
		result <- nil
		return result
	}

	c.writing = true
	c.flushed = make(chan struct{})
	go func() {
		defer close(c.flushed)
		result <- c.drainPending(ctx)
	}()
	return result
}

// Flush blocks until any queued async save has reached storage.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	ch := c.flushed
	c.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (c *Coordinator) drainPending(ctx context.Context) error {
	var lastErr error
	for {
		c.mu.Lock()
		env := c.pending
		c.pending = nil
		if env == nil {
			c.writing = false
			c.mu.Unlock()
			return lastErr
		}
		lastErr = c.writeLocked(ctx, *env)
		c.mu.Unlock()
	}
}

// Load reads and decodes the saved session. Unknown schema versions and
// structural parse failures return ErrCorruptSnapshot; the stored bytes are
// left untouched so they remain available for diagnostics.
func (c *Coordinator) Load(ctx context.Context) (engine.SessionSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, found, err := c.store.ReadSave(ctx, c.slot)
	if err != nil {
		return engine.SessionSnapshot{}, fmt.Errorf("save: read failed: %w", err)
	}
	if !found {
		return engine.SessionSnapshot{}, ErrNotFound
	}

	snap, err := decode(payload, c.rules)
	if err != nil {
		c.logger.Warn("saved game failed to load, starting fresh",
			"slot", c.slot, "error", err)
		return engine.SessionSnapshot{}, err
	}
	return snap, nil
}

// Delete removes the slot's save.
func (c *Coordinator) Delete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.DeleteSave(ctx, c.slot)
}

func (c *Coordinator) checkConflictLocked(ctx context.Context, sessionID string) error {
	existing, found, err := c.store.SaveSessionID(ctx, c.slot)
	if err != nil {
		return fmt.Errorf("save: conflict check failed: %w", err)
	}
	if found && existing != sessionID && !c.overwriteOK {
		return ErrSaveConflict
	}
	return nil
}

func (c *Coordinator) writeLocked(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("save: encode failed: %w", err)
	}
	if err := c.store.WriteSave(ctx, c.slot, env.Session.SessionID, env.Version, payload); err != nil {
		return fmt.Errorf("save: write failed: %w", err)
	}
	c.overwriteOK = false
	c.logger.Debug("session saved",
		"slot", c.slot, "session", env.Session.SessionID, "score", env.Session.Score)
	return nil
}

func newEnvelope(snap engine.SessionSnapshot) Envelope {
	return Envelope{
		Version:    SchemaVersion,
		SnapshotID: uuid.NewString(),
		SavedAt:    time.Now().UTC(),
		Session:    snap,
	}
}

// decode parses a stored payload, migrating older schema versions.
func decode(payload []byte, rules config.Rules) (engine.SessionSnapshot, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return engine.SessionSnapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	switch probe.Version {
	case SchemaVersion:
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return engine.SessionSnapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if err := env.Session.Validate(rules); err != nil {
			return engine.SessionSnapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		return env.Session, nil
	case 1:
		return migrateV1(payload, rules)
	default:
		return engine.SessionSnapshot{}, fmt.Errorf("%w: unknown schema version %d", ErrCorruptSnapshot, probe.Version)
	}
}
