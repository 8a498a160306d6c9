package mem

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// LoadImage reads a binary object image into memory. The stream is a
// big-endian origin word followed by big-endian payload words, stored
// sequentially from the origin. Words past the top of the address
// space are discarded, not wrapped.
func (mem *Memory) LoadImage(input io.Reader) (err error) {
	var origin uint16
	err = binary.Read(input, binary.BigEndian, &origin)
	if err != nil {
		err = errors.Join(ErrImageOrigin, err)
		return
	}

	addr := uint32(origin)
	for {
		var word uint16
		err = binary.Read(input, binary.BigEndian, &word)
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			err = errors.Join(ErrImageTruncated, err)
			return
		}

		if addr > 0xffff {
			continue
		}
		mem.cell[addr] = word
		addr++
	}
}

// LoadFile loads an object image from a file path.
func (mem *Memory) LoadFile(path string) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	err = mem.LoadImage(bufio.NewReader(file))

	return
}
