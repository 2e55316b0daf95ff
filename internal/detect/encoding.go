package detect

import (
	"fmt"
	"io"

	"github.com/shapestone/shape-table/internal/codec"
)

// GuessEncoding returns the encoding of rs and the length of its byte-order
// mark. A mark decides on its own. Without one, streams shorter than limit
// that are valid UTF-8 are reported as UTF-8; everything else is None and
// left to the caller. limit <= 0 uses codec.UTF8SniffLimit. The stream is
// rewound to the start before it returns.
func GuessEncoding(rs io.ReadSeeker, length, limit int64) (codec.Encoding, int, error) {
	if limit <= 0 {
		limit = codec.UTF8SniffLimit
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return codec.None, 0, fmt.Errorf("rewind: %w", err)
	}

	var prefix [4]byte
	n, err := io.ReadFull(rs, prefix[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return codec.None, 0, fmt.Errorf("read byte-order mark: %w", err)
	}
	enc, bom := codec.DetectBOM(prefix[:n])

	if enc == codec.None {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return codec.None, 0, fmt.Errorf("rewind: %w", err)
		}
		ok, err := codec.SniffUTF8(rs, length, limit)
		if err != nil {
			return codec.None, 0, fmt.Errorf("sniff utf-8: %w", err)
		}
		if ok {
			enc = codec.UTF8
		}
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return codec.None, 0, fmt.Errorf("rewind: %w", err)
	}
	return enc, bom, nil
}
