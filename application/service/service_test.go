package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capdex/capdex/domain/gallery"
	"github.com/capdex/capdex/domain/search"
	"github.com/capdex/capdex/infrastructure/persistence"
	"github.com/capdex/capdex/internal/testdb"
)

// fakeCompressor passes the payload through and reports fixed dimensions.
type fakeCompressor struct {
	err error
}

func (f *fakeCompressor) Compress(_ context.Context, raw []byte) ([]byte, int, int, error) {
	if f.err != nil {
		return nil, 0, 0, f.err
	}
	return append([]byte("compressed:"), raw...), 640, 480, nil
}

// fakeCaptioner maps image payloads to canned captions.
type fakeCaptioner struct {
	captions map[string]string
	err      error
}

func (f *fakeCaptioner) Caption(_ context.Context, raw []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	caption, ok := f.captions[string(raw)]
	if !ok {
		return "", fmt.Errorf("no caption for payload %q", raw)
	}
	return caption, nil
}

// fakeEmbedder maps text to canned unit-norm vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for text %q", text)
	}
	return v, nil
}

func newStore(t *testing.T) *persistence.ImageStore {
	t.Helper()
	return persistence.NewImageStore(testdb.New(t), nil)
}

func TestIngestion_Ingest(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewIngestion(store, &fakeCompressor{}, &fakeCaptioner{}, &fakeEmbedder{}, nil)

	id, err := svc.Ingest(ctx, []byte("raw-cat"), "cat.jpg", "a cat", []float32{0.6, 0.8})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rows, err := store.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// The compressed payload is stored, not the raw upload.
	assert.Equal(t, []byte("compressed:raw-cat"), rows[0].ImageBytes())
	assert.Equal(t, "a cat", rows[0].Caption())

	vec, err := search.DecodeVector(rows[0].Embedding())
	require.NoError(t, err)
	assert.Equal(t, []float32{0.6, 0.8}, vec)
}

func TestIngestion_Ingest_DuplicateName(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := NewIngestion(store, &fakeCompressor{}, &fakeCaptioner{}, &fakeEmbedder{}, nil)

	_, err := svc.Ingest(ctx, []byte("raw"), "cat.jpg", "a cat", []float32{1, 0})
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, []byte("other"), "cat.jpg", "another cat", []float32{0, 1})
	assert.ErrorIs(t, err, gallery.ErrDuplicateName)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIngestion_Ingest_CompressorError(t *testing.T) {
	ctx := context.Background()
	svc := NewIngestion(newStore(t), &fakeCompressor{err: errors.New("not an image")}, &fakeCaptioner{}, &fakeEmbedder{}, nil)

	_, err := svc.Ingest(ctx, []byte("junk"), "junk.bin", "caption", []float32{1, 0})
	assert.ErrorIs(t, err, gallery.ErrValidation)
}

func TestIngestion_CaptionImage(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	captioner := &fakeCaptioner{captions: map[string]string{"raw-cat": "a cat on a mat"}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{"a cat on a mat": {0.6, 0.8}}}
	svc := NewIngestion(store, &fakeCompressor{}, captioner, embedder, nil)

	caption, err := svc.CaptionImage(ctx, []byte("raw-cat"), "cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a cat on a mat", caption)

	rows, err := store.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a cat on a mat", rows[0].Caption())
}

func TestIngestion_CaptionImage_ProviderError(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("upstream unavailable")
	svc := NewIngestion(newStore(t), &fakeCompressor{}, &fakeCaptioner{err: wantErr}, &fakeEmbedder{}, nil)

	_, err := svc.CaptionImage(ctx, []byte("raw"), "cat.jpg")
	assert.ErrorIs(t, err, wantErr)
}

func TestSearch_ByDescription(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"a cat":              {0.6, 0.8},
		"a dog":              {0.8, 0.6},
		"small furry feline": {0.59, 0.81},
	}}
	ingest := NewIngestion(store, &fakeCompressor{}, &fakeCaptioner{}, embedder, nil)
	svc := NewSearch(store, &fakeCaptioner{}, embedder, nil)

	_, err := ingest.Ingest(ctx, []byte("cat-img"), "cat.jpg", "a cat", []float32{0.6, 0.8})
	require.NoError(t, err)
	_, err = ingest.Ingest(ctx, []byte("dog-img"), "dog.jpg", "a dog", []float32{0.8, 0.6})
	require.NoError(t, err)

	match, err := svc.ByDescription(ctx, "small furry feline")
	require.NoError(t, err)

	assert.Equal(t, "a cat", match.Caption())
	assert.Equal(t, []byte("compressed:cat-img"), match.ImageBytes())
	assert.InDelta(t, 0.59*0.6+0.81*0.8, match.Score(), 1e-6)
}

func TestSearch_ByDescription_Empty(t *testing.T) {
	ctx := context.Background()
	svc := NewSearch(newStore(t), &fakeCaptioner{}, &fakeEmbedder{}, nil)

	_, err := svc.ByDescription(ctx, "")
	assert.ErrorIs(t, err, gallery.ErrValidation)
}

func TestSearch_ByDescription_EmptyStore(t *testing.T) {
	ctx := context.Background()
	embedder := &fakeEmbedder{vectors: map[string][]float32{"anything": {1, 0}}}
	svc := NewSearch(newStore(t), &fakeCaptioner{}, embedder, nil)

	_, err := svc.ByDescription(ctx, "anything")
	assert.ErrorIs(t, err, search.ErrEmptyStore)
}

func TestSearch_ByImage(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	captioner := &fakeCaptioner{captions: map[string]string{"query-img": "a cat outdoors"}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"a cat":          {0.6, 0.8},
		"a dog":          {0.8, 0.6},
		"a cat outdoors": {0.59, 0.81},
	}}
	ingest := NewIngestion(store, &fakeCompressor{}, captioner, embedder, nil)
	svc := NewSearch(store, captioner, embedder, nil)

	_, err := ingest.Ingest(ctx, []byte("cat-img"), "cat.jpg", "a cat", []float32{0.6, 0.8})
	require.NoError(t, err)
	_, err = ingest.Ingest(ctx, []byte("dog-img"), "dog.jpg", "a dog", []float32{0.8, 0.6})
	require.NoError(t, err)

	match, err := svc.ByImage(ctx, []byte("query-img"))
	require.NoError(t, err)
	assert.Equal(t, "a cat", match.Caption())
}

func TestSearch_ByImage_EmbedderError(t *testing.T) {
	ctx := context.Background()
	captioner := &fakeCaptioner{captions: map[string]string{"img": "a caption"}}
	wantErr := errors.New("embed failed")
	svc := NewSearch(newStore(t), captioner, &fakeEmbedder{err: wantErr}, nil)

	_, err := svc.ByImage(ctx, []byte("img"))
	assert.ErrorIs(t, err, wantErr)
}
