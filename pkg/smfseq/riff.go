package smfseq

import (
	"encoding/binary"
	"errors"
)

// RMID wraps an SMF payload in a RIFF container: a "RIFF" header with an
// "RMID" form type, followed by chunks of which "data" holds the SMF.

func isRIFF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "RIFF"
}

// unwrapRMID extracts the SMF payload from an RMID container. Truncated
// containers are detected by bounds-checking every chunk header and body
// against the remaining input.
func unwrapRMID(data []byte) ([]byte, error) {
	if len(data) < 12 {
		return nil, errors.New("rmid: truncated RIFF header")
	}
	if string(data[8:12]) != "RMID" {
		return nil, errors.New("rmid: not an RMID form")
	}

	off := 12
	for {
		if off+8 > len(data) {
			return nil, errors.New("rmid: data chunk not found")
		}
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8

		if size < 0 || off+size > len(data) {
			return nil, errors.New("rmid: chunk exceeds input")
		}
		if id == "data" {
			return data[off : off+size], nil
		}
		// Chunks are word-aligned.
		off += size + (size & 1)
	}
}
