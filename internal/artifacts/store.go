package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/procflow-io/procflow/pkg/storage"
)

// ResultsPrefix is the blob namespace all persisted artifacts live under.
const ResultsPrefix = "results/"

// Store persists and retrieves stage artifacts in blob storage. The
// pipeline orchestrator is the sole writer; download and listing
// endpoints only read.
type Store struct {
	storage storage.System
	logger  *slog.Logger
}

// NewStore creates an artifact store over the given blob storage system.
func NewStore(store storage.System, logger *slog.Logger) *Store {
	return &Store{
		storage: store,
		logger:  logger.With("system", "artifacts"),
	}
}

// Key returns the blob key for a stage artifact of the given document identity.
func Key(docKey string, stage Stage) string {
	return ResultsPrefix + docKey + "/" + stage.Filename()
}

// Save persists content as the named stage artifact for the document identity.
func (s *Store) Save(ctx context.Context, docKey string, stage Stage, content string) error {
	if !stage.Valid() {
		return ErrInvalidStage
	}

	key := Key(docKey, stage)
	if err := s.storage.Upload(ctx, key, strings.NewReader(content), stage.ContentType()); err != nil {
		return fmt.Errorf("persist artifact %s: %w", key, err)
	}

	s.logger.Debug("artifact saved", "key", key, "bytes", len(content))
	return nil
}

// Open returns a stream for the named stage artifact.
// Returns ErrNotFound when the artifact does not exist.
func (s *Store) Open(ctx context.Context, docKey string, stage Stage) (*storage.DownloadResult, error) {
	if !stage.Valid() {
		return nil, ErrInvalidStage
	}
	return s.open(ctx, Key(docKey, stage))
}

// OpenByName returns a stream for an artifact addressed by its persisted
// file name rather than its stage key.
func (s *Store) OpenByName(ctx context.Context, docKey, name string) (*storage.DownloadResult, error) {
	return s.open(ctx, ResultsPrefix+docKey+"/"+name)
}

func (s *Store) open(ctx context.Context, key string) (*storage.DownloadResult, error) {
	result, err := s.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

// Read returns the full content of the named stage artifact as a string.
func (s *Store) Read(ctx context.Context, docKey string, stage Stage) (string, error) {
	result, err := s.Open(ctx, docKey, stage)
	if err != nil {
		return "", err
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", Key(docKey, stage), err)
	}
	return string(data), nil
}

// AllPresent reports whether every expected stage artifact exists for the
// document identity. A partial set reports false; the resolver treats it
// the same as no artifacts at all.
func (s *Store) AllPresent(ctx context.Context, docKey string) (bool, error) {
	for _, stage := range stages {
		exists, err := s.storage.Exists(ctx, Key(docKey, stage))
		if err != nil {
			return false, fmt.Errorf("check artifact %s: %w", Key(docKey, stage), err)
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

// Structure lists the persisted artifact namespace grouped by document
// identity: map of document key to its artifact file names.
func (s *Store) Structure(ctx context.Context) (map[string][]string, error) {
	structure := make(map[string][]string)

	marker := ""
	for {
		page, err := s.storage.List(ctx, ResultsPrefix, marker, storage.MaxListCap)
		if err != nil {
			return nil, fmt.Errorf("list artifacts: %w", err)
		}

		for _, key := range page.Keys {
			docKey, name, ok := splitArtifactKey(key)
			if !ok {
				continue
			}
			structure[docKey] = append(structure[docKey], name)
		}

		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}

	for docKey := range structure {
		sort.Strings(structure[docKey])
	}

	return structure, nil
}

// splitArtifactKey separates "results/<doc-key>/<name>" into its document
// identity and artifact name. Document keys may themselves contain slashes;
// the artifact name is the final path segment.
func splitArtifactKey(key string) (docKey, name string, ok bool) {
	rest, found := strings.CutPrefix(key, ResultsPrefix)
	if !found {
		return "", "", false
	}

	idx := strings.LastIndex(rest, "/")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", false
	}

	return rest[:idx], rest[idx+1:], true
}
