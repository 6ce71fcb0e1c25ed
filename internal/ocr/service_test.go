package ocr

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	mu     sync.Mutex
	calls  int
	stdout string
	err    error
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return []byte(r.stdout), nil, r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func opaqueImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	return img
}

func transparentImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
		}
	}
	return img
}

func TestExtractorCleansOutput(t *testing.T) {
	path := writePNG(t, opaqueImage())

	runner := &stubRunner{stdout: "Order Total\n'ORDER # 113-2089298-0236240'\nTotal   $16.15\n"}
	e := &Extractor{
		cfg:    Config{Tesseract: "tesseract", Lang: "eng"},
		runner: runner,
		logger: testLogger(),
	}

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "113-2089298-0236240 $16.15", res.Cleaned)
	assert.Contains(t, res.Text, "ORDER # 113-2089298-0236240")
	assert.NotEqual(t, res.JobID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestServiceCachesByPath(t *testing.T) {
	path := writePNG(t, opaqueImage())

	runner := &stubRunner{stdout: "ORDER # 113-2089298-0236240\n$16.15\n"}
	e := &Extractor{cfg: Config{Tesseract: "tesseract", Lang: "eng"}, runner: runner, logger: testLogger()}
	svc := NewService(e, testLogger())

	first, err := svc.ExtractText(context.Background(), path)
	require.NoError(t, err)
	second, err := svc.ExtractText(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, runner.calls)
}

func TestServiceRejectsNonImage(t *testing.T) {
	e := &Extractor{cfg: Config{Tesseract: "tesseract", Lang: "eng"}, runner: &stubRunner{}, logger: testLogger()}
	svc := NewService(e, testLogger())

	_, err := svc.ExtractText(context.Background(), "notes.txt")
	require.Error(t, err)
}

func TestPrepareImageFlattensAlpha(t *testing.T) {
	path := writePNG(t, transparentImage())

	prepared, cleanup, err := PrepareImage(path)
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	defer cleanup()

	assert.NotEqual(t, path, prepared)

	f, err := os.Open(prepared)
	require.NoError(t, err)
	defer f.Close()
	flat, err := png.Decode(f)
	require.NoError(t, err)

	_, _, _, a := flat.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestPrepareImagePassesThroughOpaque(t *testing.T) {
	path := writePNG(t, opaqueImage())

	prepared, cleanup, err := PrepareImage(path)
	require.NoError(t, err)
	assert.Nil(t, cleanup)
	assert.Equal(t, path, prepared)
}
