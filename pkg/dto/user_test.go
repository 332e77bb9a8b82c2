package dto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/faceauth/pkg/dto"
)

func TestDecodePhotoPlainBase64(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	data, err := dto.DecodePhoto(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, raw, data)
}

func TestDecodePhotoStripsDataURLPrefix(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	encoded := base64.StdEncoding.EncodeToString(raw)

	for _, prefix := range []string{
		"data:image/jpeg;base64,",
		"data:image/png;base64,",
		"data:image/webp;base64,",
	} {
		data, err := dto.DecodePhoto(prefix + encoded)
		require.NoError(t, err, prefix)
		require.Equal(t, raw, data, prefix)
	}
}

func TestDecodePhotoInvalidBase64(t *testing.T) {
	_, err := dto.DecodePhoto("not!!valid!!base64")
	require.Error(t, err)
}

func TestDecodePhotoEmptyPayload(t *testing.T) {
	_, err := dto.DecodePhoto("")
	require.Error(t, err)

	// a bare prefix with no payload behind it is also empty
	_, err = dto.DecodePhoto("data:image/jpeg;base64,")
	require.Error(t, err)
}
