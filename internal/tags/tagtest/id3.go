// Package tagtest writes small tagged music files for tests.
package tagtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"slices"
	"testing"
)

// id3Padding leaves room after the last frame so readers stop on a zero
// frame header.
const id3Padding = 32

// WriteMP3 writes an MP3 file at path holding an ID3v2.3 tag with the given
// text frames (e.g. "TIT2": "Title") followed by a single silent MPEG frame.
func WriteMP3(t *testing.T, path string, frames map[string]string) {
	t.Helper()

	var body bytes.Buffer
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		data := append([]byte{0}, frames[id]...) // ISO-8859-1
		body.WriteString(id)
		_ = binary.Write(&body, binary.BigEndian, uint32(len(data)))
		body.Write([]byte{0, 0})
		body.Write(data)
	}
	body.Write(make([]byte, id3Padding))

	var file bytes.Buffer
	file.WriteString("ID3")
	file.Write([]byte{3, 0, 0})
	file.Write(syncsafe(body.Len()))
	file.Write(body.Bytes())

	// MPEG1 Layer3, 128kbps, 44100Hz, stereo
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	file.Write(mp3Frame)

	if err := os.WriteFile(path, file.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
}

func syncsafe(n int) []byte {
	return []byte{
		byte(n>>21) & 0x7f,
		byte(n>>14) & 0x7f,
		byte(n>>7) & 0x7f,
		byte(n) & 0x7f,
	}
}
