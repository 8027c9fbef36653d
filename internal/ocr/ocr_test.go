package ocr

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRasterizer struct {
	pages    [][]byte
	err      error
	gotPages int
	gotDPI   float64
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ []byte, maxPages int, dpi float64) ([][]byte, error) {
	f.gotPages = maxPages
	f.gotDPI = dpi
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) > maxPages {
		return f.pages[:maxPages], nil
	}
	return f.pages, nil
}

type fakeRecognizer struct {
	calls atomic.Int32
	fail  string
}

func (f *fakeRecognizer) RecognizeImage(_ context.Context, image []byte) (string, error) {
	f.calls.Add(1)
	if string(image) == f.fail {
		return "", errors.New("unreadable")
	}
	return "text of " + string(image), nil
}

func TestPipeline_JoinsPagesInOrder(t *testing.T) {
	r := &fakeRasterizer{pages: [][]byte{[]byte("p1"), []byte("p2"), []byte("p3")}}
	rec := &fakeRecognizer{}
	p := NewPipeline(r, rec)
	p.Concurrency = 3

	text, err := p.Recognize(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "text of p1\ntext of p2\ntext of p3", text)
	assert.Equal(t, int32(3), rec.calls.Load())
	assert.Equal(t, DefaultMaxPages, r.gotPages)
	assert.Equal(t, float64(DefaultDPI), r.gotDPI)
}

func TestPipeline_LimitsPages(t *testing.T) {
	pages := make([][]byte, 8)
	for i := range pages {
		pages[i] = []byte{byte('a' + i)}
	}
	rec := &fakeRecognizer{}
	p := NewPipeline(&fakeRasterizer{pages: pages}, rec)

	_, err := p.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(DefaultMaxPages), rec.calls.Load())
}

func TestPipeline_Errors(t *testing.T) {
	tests := []struct {
		name      string
		pipeline  *Pipeline
		wantStage Stage
	}{
		{
			name:      "missing collaborators",
			pipeline:  &Pipeline{},
			wantStage: StageConfig,
		},
		{
			name:      "rasterize failure",
			pipeline:  NewPipeline(&fakeRasterizer{err: errors.New("corrupt")}, &fakeRecognizer{}),
			wantStage: StageRasterize,
		},
		{
			name:      "no pages",
			pipeline:  NewPipeline(&fakeRasterizer{}, &fakeRecognizer{}),
			wantStage: StageRasterize,
		},
		{
			name:      "page failure",
			pipeline:  NewPipeline(&fakeRasterizer{pages: [][]byte{[]byte("ok"), []byte("bad")}}, &fakeRecognizer{fail: "bad"}),
			wantStage: StageRecognize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.pipeline.Recognize(context.Background(), []byte("x"))
			var ocrErr *Error
			require.ErrorAs(t, err, &ocrErr)
			assert.Equal(t, tt.wantStage, ocrErr.Stage)
		})
	}
}

func TestFitzRasterizer_RejectsGarbage(t *testing.T) {
	_, err := FitzRasterizer{}.Rasterize(context.Background(), []byte("not a document"), 1, 72)
	assert.Error(t, err)
}
