// Package backup uploads encrypted snapshots of the meal log and profile to
// S3-compatible storage and restores them.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/store"
)

var (
	ErrNotConfigured = errors.New("backup not configured: S3 credentials missing")
	ErrInProgress    = errors.New("backup already in progress")
	ErrNoPassphrase  = errors.New("passphrase is required")
	ErrInvalidKey    = errors.New("invalid backup key")
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Snapshotter produces and consumes the serialized state being backed up.
type Snapshotter interface {
	Export() ([]byte, error)
	Import(data []byte) error
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration.
type Config struct {
	S3        S3Config
	Namespace string
	// Interval between scheduled backups. Zero disables scheduling.
	Interval time.Duration
	// RetentionDays prunes older backups after each run. Zero keeps all.
	RetentionDays int
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	LastKey    string     `json:"last_key,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
	Scheduled  bool       `json:"scheduled"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// Manager manages encrypted backups to S3-compatible storage.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	status   Status
	callback StatusCallback

	snap    Snapshotter
	history *store.BackupStore
	client  s3Client
	logger  *slog.Logger
	now     func() time.Time

	// passphrase from the last successful manual run, memory only
	cachedPassphrase string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a new backup manager. It is disabled unless the S3
// bucket and credentials are all set.
func NewManager(cfg Config, snap Snapshotter, history *store.BackupStore, logger *slog.Logger, callback StatusCallback) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:      cfg,
		snap:     snap,
		history:  history,
		callback: callback,
		logger:   logger,
		now:      time.Now,
		status:   Status{State: StateDisabled},
	}

	if cfg.S3.complete() {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}

	if history != nil {
		last, err := history.LatestCompleted()
		if err != nil {
			logger.Warn("load last backup", "error", err)
		} else if last != nil {
			m.status.LastBackup = last.CompletedAt
			m.status.LastKey = last.Key
		}
	}

	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the scheduled backup loop. Scheduled runs reuse the
// passphrase of the last successful manual backup and are skipped until
// one has happened.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status.State == StateDisabled || m.cfg.Interval <= 0 || m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.status.Scheduled = true
	interval := m.cfg.Interval
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.runScheduled(ctx)
			}
		}
	}()
}

// Stop gracefully stops the backup loop.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// update applies fn to the status and reports the result to the callback.
func (m *Manager) update(fn func(*Status)) {
	m.mu.Lock()
	fn(&m.status)
	s := m.status
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

func (m *Manager) fail(err error) {
	m.update(func(s *Status) {
		s.State = StateError
		s.InProgress = false
		s.Error = err.Error()
	})
}

func (m *Manager) runScheduled(ctx context.Context) {
	m.mu.RLock()
	passphrase := m.cachedPassphrase
	m.mu.RUnlock()

	if passphrase == "" {
		m.logger.Info("skipping scheduled backup, no passphrase cached")
		return
	}
	if _, err := m.RunNow(ctx, passphrase); err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
	}
}

// objectKey names a backup taken at ts.
func (m *Manager) objectKey(ts time.Time) string {
	return fmt.Sprintf("%s/backup-%s.json.enc", m.cfg.Namespace, ts.UTC().Format("2006-01-02T150405.000Z"))
}

// RunNow exports a snapshot, encrypts it under passphrase with a fresh salt
// and uploads it. It returns the object key.
func (m *Manager) RunNow(ctx context.Context, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrNoPassphrase
	}

	m.mu.Lock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	if client == nil {
		m.mu.Unlock()
		return "", ErrNotConfigured
	}
	if m.status.InProgress {
		m.mu.Unlock()
		return "", ErrInProgress
	}
	m.status.State = StateRunning
	m.status.InProgress = true
	m.status.Error = ""
	s := m.status
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}

	key := m.objectKey(m.now())
	recordID, err := m.recordStart(key)
	if err != nil {
		m.fail(err)
		return "", fmt.Errorf("create backup record: %w", err)
	}

	markFailed := func(err error) {
		m.recordStatus(recordID, model.BackupStatusFailed, err.Error())
		m.fail(err)
	}

	plaintext, err := m.snap.Export()
	if err != nil {
		markFailed(err)
		return "", fmt.Errorf("export snapshot: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		markFailed(err)
		return "", err
	}

	sealed, err := Seal(plaintext, passphrase, salt)
	if err != nil {
		markFailed(err)
		return "", fmt.Errorf("encrypt: %w", err)
	}

	m.recordStatus(recordID, model.BackupStatusUploading, "")

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		markFailed(err)
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	if m.history != nil {
		if err := m.history.UpdateCompleted(recordID, int64(len(sealed))); err != nil {
			m.logger.Warn("record backup completion", "error", err)
		}
	}

	now := m.now().UTC()
	m.mu.Lock()
	m.cachedPassphrase = passphrase
	m.mu.Unlock()
	m.update(func(s *Status) {
		s.State = StateIdle
		s.InProgress = false
		s.LastBackup = &now
		s.LastKey = key
	})
	m.logger.Info("backup uploaded", "key", key, "bytes", len(sealed))

	if m.cfg.RetentionDays > 0 {
		if err := m.Cleanup(ctx, m.cfg.RetentionDays); err != nil {
			m.logger.Warn("backup cleanup failed", "error", err)
		}
	}

	return key, nil
}

// Restore downloads the backup at key, decrypts it and replaces the
// current log and profile with its contents.
func (m *Manager) Restore(ctx context.Context, key, passphrase string) error {
	if passphrase == "" {
		return ErrNoPassphrase
	}

	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil {
		return ErrNotConfigured
	}
	if key == "" || !strings.HasPrefix(key, m.cfg.Namespace+"/") {
		return fmt.Errorf("%w: %q is outside namespace %q", ErrInvalidKey, key, m.cfg.Namespace)
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	sealed, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	plaintext, err := Open(sealed, passphrase)
	if err != nil {
		return err
	}

	if err := m.snap.Import(plaintext); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	m.logger.Info("backup restored", "key", key)
	return nil
}

// List returns the most recent backup records, newest first.
func (m *Manager) List(limit int) ([]model.Backup, error) {
	if m.history == nil {
		return nil, nil
	}
	return m.history.List(limit)
}

// Cleanup deletes backups older than the retention period. A record is
// only removed once its object is gone, so a failed delete is retried on
// the next run.
func (m *Manager) Cleanup(ctx context.Context, retentionDays int) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil || m.history == nil {
		return nil
	}

	before := m.now().UTC().AddDate(0, 0, -retentionDays)
	old, err := m.history.OlderThan(before)
	if err != nil {
		return fmt.Errorf("list old backups: %w", err)
	}

	var errs []error
	for _, b := range old {
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(b.Key),
		}); err != nil {
			m.logger.Warn("delete backup object", "key", b.Key, "error", err)
			errs = append(errs, fmt.Errorf("delete object %s: %w", b.Key, err))
			continue
		}
		if err := m.history.Delete(b.ID); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// recordStart creates a history row for key. Without a history store it
// records nothing.
func (m *Manager) recordStart(key string) (int64, error) {
	if m.history == nil {
		return 0, nil
	}
	b, err := m.history.Create(key)
	if err != nil {
		return 0, err
	}
	return b.ID, nil
}

func (m *Manager) recordStatus(id int64, status model.BackupStatus, errorMsg string) {
	if m.history == nil {
		return
	}
	if err := m.history.UpdateStatus(id, status, errorMsg); err != nil {
		m.logger.Warn("record backup status", "status", status, "error", err)
	}
}
