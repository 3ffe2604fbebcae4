package repository

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/cache"
	"theatre-forms/internal/models"
)

// FileRecordLog appends records to a newline-delimited text file. Appends are
// serialized in-process by a mutex and across processes by flock.
type FileRecordLog struct {
	mu     sync.Mutex
	path   string
	tracer trace.Tracer
}

func NewFileRecordLog(path string) *FileRecordLog {
	return &FileRecordLog{
		path:   path,
		tracer: otel.Tracer("record-log"),
	}
}

func (l *FileRecordLog) Path() string {
	return l.path
}

func (l *FileRecordLog) Append(ctx context.Context, record models.Record) error {
	_, span := l.tracer.Start(ctx, "record_log.file.append",
		trace.WithAttributes(
			attribute.String("record.kind", record.Kind()),
			attribute.String("storage.path", l.path),
			attribute.String("operation", "storage.append"),
		))
	defer span.End()

	line := FormatLine(record)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := appendLine(l.path, line); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer unlockFile(f)

	// one write call per record keeps O_APPEND writes whole
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// FileSubscriberRepository keeps one lower-cased address per line. The parsed
// set is cached and re-read only when the file's size or mtime changes.
type FileSubscriberRepository struct {
	mu     sync.Mutex
	path   string
	cache  cache.SubscriberCache
	ttl    time.Duration
	tracer trace.Tracer
}

func NewFileSubscriberRepository(path string, c cache.SubscriberCache) *FileSubscriberRepository {
	return &FileSubscriberRepository{
		path:   path,
		cache:  c,
		ttl:    10 * time.Minute,
		tracer: otel.Tracer("subscriber-repository"),
	}
}

func (r *FileSubscriberRepository) Path() string {
	return r.path
}

func (r *FileSubscriberRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.exists",
		trace.WithAttributes(
			attribute.String("storage.path", r.path),
			attribute.String("operation", "storage.read"),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	set, err := r.snapshot(ctx, f)
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	found := set.Contains(email)
	span.SetAttributes(attribute.Bool("found", found))
	return found, nil
}

// InsertIfAbsent holds the file lock across read, check and append, so two
// writers going through this repository cannot both admit the same address.
func (r *FileSubscriberRepository) InsertIfAbsent(ctx context.Context, email string) error {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.insert",
		trace.WithAttributes(
			attribute.String("storage.path", r.path),
			attribute.String("operation", "storage.append"),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		span.RecordError(err)
		return fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer unlockFile(f)

	set, err := r.snapshot(ctx, f)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if set.Contains(email) {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return models.ErrAlreadySubscribed
	}

	line := models.NormalizeEmail(email) + "\n"
	if !endsWithNewline(f) {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		span.RecordError(err)
		return fmt.Errorf("write %s: %w", r.path, err)
	}

	set.Add(email)
	if version, err := fileVersion(f); err == nil {
		_ = r.cache.Set(ctx, r.path, set, version, r.ttl)
	} else {
		_ = r.cache.Delete(ctx, r.path)
	}

	span.SetAttributes(
		attribute.Bool("duplicate", false),
		attribute.Int("subscriber.count", set.Len()),
		attribute.Bool("success", true),
	)
	return nil
}

func (r *FileSubscriberRepository) snapshot(ctx context.Context, f *os.File) (*models.SubscriberSet, error) {
	version, err := fileVersion(f)
	if err != nil {
		return nil, err
	}

	if set, cached, err := r.cache.Get(ctx, r.path); err == nil && cached == version {
		return set, nil
	}

	set, err := readSubscribers(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	_ = r.cache.Set(ctx, r.path, set, version, r.ttl)
	return set, nil
}

func fileVersion(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", f.Name(), err)
	}
	return fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano()), nil
}

// endsWithNewline reports whether f is empty or already newline-terminated,
// so hand-edited files do not get two addresses glued together.
func endsWithNewline(f *os.File) bool {
	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return true
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return true
	}
	return last[0] == '\n'
}

func readSubscribers(f *os.File) (*models.SubscriberSet, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	set := models.NewSubscriberSet()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		set.Add(scanner.Text())
	}
	return set, scanner.Err()
}
