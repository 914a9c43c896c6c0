package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_Encode(t *testing.T) {
	enc := NewEncoder(128)

	b, err := enc.Encode("CB20260501000001|1500.00")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	_, err = enc.Encode("")
	assert.Error(t, err)
}

func TestNewEncoder_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSize, NewEncoder(0).Size)
	assert.Equal(t, 300, NewEncoder(300).Size)
}
