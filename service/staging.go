package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StagingDir is the isolated scratch directory of one run. It holds the raw
// input, an optional transcoded audio file and an optional chunks subfolder,
// and is removed unconditionally when the run ends.
type StagingDir struct {
	root string
}

// NewStagingDir creates a fresh staging directory under stagingRoot. The
// name combines a millisecond timestamp with a random suffix so concurrent
// runs on the same host never collide.
func NewStagingDir(stagingRoot string) (*StagingDir, error) {
	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strings.Split(uuid.NewString(), "-")[0]
	root := filepath.Join(stagingRoot, name)
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &StagingDir{root: root}, nil
}

func (s *StagingDir) Root() string {
	return s.root
}

// InputPath returns the path for the raw input file, named "input" plus the
// original extension.
func (s *StagingDir) InputPath(ext string) string {
	return filepath.Join(s.root, "input"+ext)
}

// AudioPath returns the path for the transcoded audio file.
func (s *StagingDir) AudioPath() string {
	return filepath.Join(s.root, "audio.mp3")
}

// ChunksDir creates and returns the subfolder for split chunks.
func (s *StagingDir) ChunksDir() (string, error) {
	dir := filepath.Join(s.root, "chunks")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create chunks directory: %w", err)
	}
	return dir, nil
}

// StageReader writes the raw upload into the staging directory.
func (s *StagingDir) StageReader(r io.Reader, ext string) (string, error) {
	path := s.InputPath(ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("stage input file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("stage input file: %w", err)
	}
	return path, nil
}

// Destroy removes the staging directory recursively. Removal errors are
// logged and swallowed so cleanup never masks the result of the run.
func (s *StagingDir) Destroy(ctx context.Context) {
	if err := os.RemoveAll(s.root); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("staging_dir", s.root).Msg("failed to remove staging directory")
	}
}
