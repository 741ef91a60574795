package fileutil

import (
	"bytes"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/Lyrebird/core/errors"
)

// xzMagic is the xz container signature.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// ReadInput reads a notation file, transparently decompressing xz
// containers. Songbook collections commonly ship tunes xz-compressed.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "input file", ID: path, Err: err}
		}
		return nil, err
	}
	return Decompress(data)
}

// Decompress returns the uncompressed form of data: xz payloads are
// unpacked, everything else passes through unchanged.
func Decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, xzMagic) {
		return data, nil
	}
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "opening xz stream")
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "decompressing xz stream")
	}
	return out, nil
}
