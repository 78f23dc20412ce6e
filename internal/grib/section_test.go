package grib

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(id uint8, payload []byte) []byte {
	b := make([]byte, sectionHeaderLen+len(payload))
	binary.BigEndian.PutUint32(b, uint32(len(b)))
	b[4] = id
	copy(b[5:], payload)
	return b
}

func TestSectionReader(t *testing.T) {
	t.Run("walks framed sections", func(t *testing.T) {
		body := frame(1, []byte{0xAA, 0xBB})
		body = append(body, frame(3, []byte{0xCC})...)
		body = append(body, "7777"...)

		r := NewSectionReader(body)

		sec, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, uint8(1), sec.ID)
		assert.Equal(t, uint32(7), sec.Length)
		assert.Equal(t, []byte{0xAA, 0xBB}, sec.Payload)

		sec, err = r.Next()
		require.NoError(t, err)
		assert.Equal(t, uint8(3), sec.ID)
		assert.Equal(t, []byte{0xCC}, sec.Payload)

		sec, err = r.Next()
		require.NoError(t, err)
		assert.Nil(t, sec)
	})

	t.Run("empty payload", func(t *testing.T) {
		body := append(frame(4, nil), "7777"...)
		r := NewSectionReader(body)

		sec, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, uint8(4), sec.ID)
		assert.Empty(t, sec.Payload)
	})

	t.Run("reset rewinds", func(t *testing.T) {
		body := append(frame(1, []byte{0x01}), "7777"...)
		r := NewSectionReader(body)

		first, err := r.Next()
		require.NoError(t, err)
		r.Reset()
		again, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	})

	t.Run("missing end marker", func(t *testing.T) {
		r := NewSectionReader(frame(1, []byte{0x01}))

		_, err := r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		assert.ErrorIs(t, err, ErrMalformedSection)
	})

	t.Run("truncated header", func(t *testing.T) {
		r := NewSectionReader([]byte{0x00, 0x00, 0x00, 0x07})

		_, err := r.Next()
		assert.ErrorIs(t, err, ErrMalformedSection)
	})

	t.Run("length shorter than header", func(t *testing.T) {
		body := []byte{0x00, 0x00, 0x00, 0x03, 0x01, 0x00, 0x00}
		r := NewSectionReader(body)

		_, err := r.Next()
		assert.ErrorIs(t, err, ErrMalformedSection)
	})

	t.Run("length overruns buffer", func(t *testing.T) {
		body := []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}
		r := NewSectionReader(body)

		_, err := r.Next()
		assert.ErrorIs(t, err, ErrMalformedSection)
	})
}
