// Package storage keeps upload chunks and committed media on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"estate-market/pkg/pathsafe"
)

const (
	// MaxChunks bounds totalChunks. chunkIndexWidth must stay above log10(MaxChunks)
	// so that directory order of chunk files equals index order.
	MaxChunks       = 100000
	chunkIndexWidth = 6
	chunkPrefix     = "chunk-"
)

var ErrInvalidIndex = errors.New("chunk index out of range")

// MissingChunkError reports the first absent index found at assembly time.
type MissingChunkError struct {
	Index int
}

func (e *MissingChunkError) Error() string {
	return fmt.Sprintf("missing chunk %d", e.Index)
}

// ChunkName returns the zero-padded file name for index.
func ChunkName(index int) string {
	return fmt.Sprintf("%s%0*d", chunkPrefix, chunkIndexWidth, index)
}

type ChunkStore struct {
	tempDir string
}

func NewChunkStore(tempDir string) (*ChunkStore, error) {
	abs, err := filepath.Abs(tempDir)
	if err != nil {
		return nil, fmt.Errorf("resolve temp dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &ChunkStore{tempDir: abs}, nil
}

func (s *ChunkStore) uploadDir(uploadID string) (string, error) {
	return pathsafe.Join(s.tempDir, uploadID)
}

// WriteChunk stores one chunk. The bytes land in a temporary sibling first and
// are renamed over the chunk path, so a re-upload replaces the chunk whole.
func (s *ChunkStore) WriteChunk(uploadID string, index int, r io.Reader) (int64, error) {
	if index < 0 || index >= MaxChunks {
		return 0, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".incoming-*")
	if err != nil {
		return 0, fmt.Errorf("create chunk temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("write chunk %d: %w", index, err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, ChunkName(index))); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("commit chunk %d: %w", index, err)
	}
	return n, nil
}

// ListChunks returns the indices present for uploadID in ascending order.
func (s *ChunkStore) ListChunks(uploadID string) ([]int, error) {
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), chunkPrefix) {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(e.Name(), chunkPrefix))
		if err != nil {
			continue
		}
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices, nil
}

// Assemble concatenates chunks [0,total) into destDir/finalName.
//
// Every chunk is checked before any output is created. The data is streamed
// into a hidden part file, synced and renamed, so finalName is either absent
// or complete.
func (s *ChunkStore) Assemble(uploadID string, total int, destDir, finalName string) (int64, error) {
	if total <= 0 || total > MaxChunks {
		return 0, fmt.Errorf("%w: total %d", ErrInvalidIndex, total)
	}
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return 0, err
	}

	chunks := make([]string, total)
	for i := range chunks {
		chunks[i] = filepath.Join(dir, ChunkName(i))
		info, err := os.Stat(chunks[i])
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			return 0, &MissingChunkError{Index: i}
		}
		if err != nil {
			return 0, fmt.Errorf("stat chunk %d: %w", i, err)
		}
	}

	dest, err := pathsafe.Join(destDir, finalName)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create destination dir: %w", err)
	}

	part := filepath.Join(filepath.Dir(dest), "."+finalName+".part")
	out, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create part file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			out.Close()
			os.Remove(part)
		}
	}()

	var size int64
	for i, path := range chunks {
		n, err := appendFile(out, path)
		if errors.Is(err, fs.ErrNotExist) {
			return 0, &MissingChunkError{Index: i}
		}
		if err != nil {
			return 0, fmt.Errorf("append chunk %d: %w", i, err)
		}
		size += n
	}

	if err := out.Sync(); err != nil {
		return 0, fmt.Errorf("sync part file: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close part file: %w", err)
	}
	if err := os.Rename(part, dest); err != nil {
		return 0, fmt.Errorf("commit %s: %w", finalName, err)
	}
	committed = true
	return size, nil
}

func appendFile(dst io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(dst, f)
}

// Cleanup removes every chunk of uploadID. A missing directory is not an error.
func (s *ChunkStore) Cleanup(uploadID string) error {
	dir, err := s.uploadDir(uploadID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove upload dir: %w", err)
	}
	return nil
}

// StaleDirs lists upload directories not modified since cutoff.
func (s *ChunkStore) StaleDirs(cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return nil, fmt.Errorf("read temp dir: %w", err)
	}
	var stale []string
	for _, e := range entries {
		if !e.IsDir() || pathsafe.ValidateSegment(e.Name()) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			stale = append(stale, e.Name())
		}
	}
	return stale, nil
}
