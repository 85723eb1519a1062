package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/gogpu/sobel/pixel"
)

func testBuffer(t *testing.T) *pixel.Buffer {
	t.Helper()
	b, err := pixel.FromSamples(2, 3, []byte{0, 50, 100, 150, 200, 255})
	require.NoError(t, err)
	return b
}

func TestPNGRoundTrip(t *testing.T) {
	src := testBuffer(t)

	data, err := EncodeToBytes(src)
	require.NoError(t, err)

	got, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.True(t, src.Equal(got), "got %v %v", got, got.Samples())
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := testBuffer(t)

	require.NoError(t, Save(path, src))

	got, err := Load(path)
	require.NoError(t, err)
	assert.True(t, src.Equal(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestSave_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")

	err := Save(path, testBuffer(t))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSave_EmptyBufferLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	err := Save(path, pixel.New(0, 4))
	assert.ErrorIs(t, err, ErrEmptyImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFromBytes_Empty(t *testing.T) {
	_, err := LoadFromBytes(nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestDecode_ColorToGray(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.White)
	rgba.Set(1, 0, color.Black)

	var b bytes.Buffer
	require.NoError(t, bmp.Encode(&b, rgba))

	got, err := Decode(&b)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Rows())
	assert.Equal(t, 2, got.Columns())
	assert.Equal(t, []byte{255, 0}, got.Samples())
}

func TestDecode_JPEGShape(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 16, 9))
	for i := range gray.Pix {
		gray.Pix[i] = 128
	}

	var b bytes.Buffer
	require.NoError(t, jpeg.Encode(&b, gray, &jpeg.Options{Quality: 100}))

	got, err := Decode(&b)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Rows())
	assert.Equal(t, 16, got.Columns())
}

func TestFromGray_SubImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range g.Pix {
		g.Pix[i] = byte(i)
	}
	sub := g.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)

	got, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6, 9, 10}, got.Samples())
}

func TestFromImage_Empty(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyImage)
}
