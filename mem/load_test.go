package mem

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	image := []byte{0x30, 0x00, 0x12, 0x34, 0xab, 0xcd}
	err := m.LoadImage(bytes.NewReader(image))
	assert.NoError(err)

	assert.Equal(uint16(0x1234), m.Read(0x3000))
	assert.Equal(uint16(0xabcd), m.Read(0x3001))
	assert.Equal(uint16(0), m.Read(0x3002))
}

func TestLoadImageOverlay(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	// Later images silently overwrite earlier ones.
	err := m.LoadImage(bytes.NewReader([]byte{0x30, 0x00, 0x11, 0x11, 0x22, 0x22}))
	assert.NoError(err)
	err = m.LoadImage(bytes.NewReader([]byte{0x30, 0x01, 0x33, 0x33}))
	assert.NoError(err)

	assert.Equal(uint16(0x1111), m.Read(0x3000))
	assert.Equal(uint16(0x3333), m.Read(0x3001))
}

func TestLoadImageTruncates(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	// Origin at the top word: only the first payload word fits, and
	// nothing wraps back to address zero.
	image := []byte{0xff, 0xff, 0x11, 0x11, 0x22, 0x22, 0x33, 0x33}
	err := m.LoadImage(bytes.NewReader(image))
	assert.NoError(err)

	assert.Equal(uint16(0x1111), m.Read(0xffff))
	assert.Equal(uint16(0), m.Read(0x0000))
	assert.Equal(uint16(0), m.Read(0x0001))
}

func TestLoadImageErrors(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	err := m.LoadImage(bytes.NewReader(nil))
	assert.ErrorIs(err, ErrImageOrigin)

	err = m.LoadImage(bytes.NewReader([]byte{0x30}))
	assert.ErrorIs(err, ErrImageOrigin)

	err = m.LoadImage(bytes.NewReader([]byte{0x30, 0x00, 0x12}))
	assert.ErrorIs(err, ErrImageTruncated)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "test.obj")
	err := os.WriteFile(path, []byte{0x30, 0x00, 0xbe, 0xef}, 0o644)
	assert.NoError(err)

	m := &Memory{}
	err = m.LoadFile(path)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), m.Read(0x3000))

	err = m.LoadFile(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(err)
}
