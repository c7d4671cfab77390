package artifacts_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/pkg/lifecycle"
	"github.com/procflow-io/procflow/pkg/storage"
)

// fakeBlobSystem is an in-memory storage.System used in place of Azure.
type fakeBlobSystem struct {
	mu    sync.Mutex
	blobs map[string]fakeBlob
}

type fakeBlob struct {
	data        []byte
	contentType string
}

func newFakeBlobSystem() *fakeBlobSystem {
	return &fakeBlobSystem{blobs: make(map[string]fakeBlob)}
}

func (f *fakeBlobSystem) Start(_ *lifecycle.Coordinator) error { return nil }

func (f *fakeBlobSystem) Upload(_ context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = fakeBlob{data: data, contentType: contentType}
	return nil
}

func (f *fakeBlobSystem) Download(_ context.Context, key string) (*storage.DownloadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blob, ok := f.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.DownloadResult{
		Body:          io.NopCloser(bytes.NewReader(blob.data)),
		ContentType:   blob.contentType,
		ContentLength: int64(len(blob.data)),
	}, nil
}

func (f *fakeBlobSystem) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(f.blobs, key)
	return nil
}

func (f *fakeBlobSystem) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *fakeBlobSystem) List(_ context.Context, prefix, marker string, maxResults int32) (*storage.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.blobs))
	for key := range f.blobs {
		if strings.HasPrefix(key, prefix) && key > marker {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	result := &storage.ListResult{}
	if int32(len(keys)) > maxResults {
		result.Keys = keys[:maxResults]
		result.NextMarker = keys[maxResults-1]
	} else {
		result.Keys = keys
	}
	return result, nil
}

func newStore(t *testing.T) (*fakeBlobSystem, *artifacts.Store) {
	t.Helper()
	blobs := newFakeBlobSystem()
	store := artifacts.NewStore(blobs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return blobs, store
}

func TestStageMetadata(t *testing.T) {
	t.Run("every stage has a filename and content type", func(t *testing.T) {
		for _, stage := range artifacts.Stages() {
			if stage.Filename() == "" {
				t.Errorf("stage %s missing filename", stage)
			}
			if stage.ContentType() == "" {
				t.Errorf("stage %s missing content type", stage)
			}
		}
	})

	t.Run("parse accepts known stages and rejects others", func(t *testing.T) {
		stage, err := artifacts.ParseStage("stage3_xml")
		if err != nil || stage != artifacts.StageXML {
			t.Errorf("parse stage3_xml: %v %v", stage, err)
		}
		if _, err := artifacts.ParseStage("stage9_hologram"); !errors.Is(err, artifacts.ErrInvalidStage) {
			t.Errorf("expected ErrInvalidStage, got %v", err)
		}
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and read round-trip", func(t *testing.T) {
		_, store := newStore(t)

		if err := store.Save(ctx, "doc.pdf", artifacts.StageSummary, "a summary"); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := store.Read(ctx, "doc.pdf", artifacts.StageSummary)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got != "a summary" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("save stores under the document-scoped key with stage content type", func(t *testing.T) {
		blobs, store := newStore(t)

		if err := store.Save(ctx, "doc.pdf", artifacts.StageXML, "<x/>"); err != nil {
			t.Fatalf("save: %v", err)
		}

		blob, ok := blobs.blobs["results/doc.pdf/bpmn_xml.xml"]
		if !ok {
			t.Fatalf("blob not at expected key, have %v", blobs.blobs)
		}
		if blob.contentType != "application/xml" {
			t.Errorf("content type %q", blob.contentType)
		}
	})

	t.Run("missing artifact reports not found", func(t *testing.T) {
		_, store := newStore(t)

		if _, err := store.Read(ctx, "doc.pdf", artifacts.StageResult); !errors.Is(err, artifacts.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.OpenByName(ctx, "doc.pdf", "nope.txt"); !errors.Is(err, artifacts.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("open by name resolves the persisted filename", func(t *testing.T) {
		_, store := newStore(t)

		if err := store.Save(ctx, "doc.pdf", artifacts.StageResult, "<final/>"); err != nil {
			t.Fatalf("save: %v", err)
		}

		result, err := store.OpenByName(ctx, "doc.pdf", "result.bpmn.xml")
		if err != nil {
			t.Fatalf("open by name: %v", err)
		}
		defer result.Body.Close()

		data, _ := io.ReadAll(result.Body)
		if string(data) != "<final/>" {
			t.Errorf("got %q", data)
		}
	})

	t.Run("all present requires the complete stage set", func(t *testing.T) {
		_, store := newStore(t)

		for i, stage := range artifacts.Stages() {
			ok, err := store.AllPresent(ctx, "doc.pdf")
			if err != nil {
				t.Fatalf("all present: %v", err)
			}
			if ok {
				t.Fatalf("reported complete with %d of %d artifacts", i, len(artifacts.Stages()))
			}
			if err := store.Save(ctx, "doc.pdf", stage, "content"); err != nil {
				t.Fatalf("save: %v", err)
			}
		}

		ok, err := store.AllPresent(ctx, "doc.pdf")
		if err != nil {
			t.Fatalf("all present: %v", err)
		}
		if !ok {
			t.Error("complete set not recognized")
		}
	})

	t.Run("structure groups artifact names by document", func(t *testing.T) {
		_, store := newStore(t)

		store.Save(ctx, "a.pdf", artifacts.StageSummary, "s")
		store.Save(ctx, "a.pdf", artifacts.StageResult, "r")
		store.Save(ctx, "nested/b.pdf", artifacts.StageExtractedText, "t")

		tree, err := store.Structure(ctx)
		if err != nil {
			t.Fatalf("structure: %v", err)
		}

		if !slices.Equal(tree["a.pdf"], []string{"result.bpmn.xml", "summary.txt"}) {
			t.Errorf("a.pdf artifacts: %v", tree["a.pdf"])
		}
		if !slices.Equal(tree["nested/b.pdf"], []string{"extracted_text.txt"}) {
			t.Errorf("nested/b.pdf artifacts: %v", tree["nested/b.pdf"])
		}
	})
}
