package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// queuePoller yields queued bytes in order.
type queuePoller struct {
	queue []byte
}

func (qp *queuePoller) Poll() (b byte, ok bool) {
	if len(qp.queue) == 0 {
		return
	}

	b = qp.queue[0]
	qp.queue = qp.queue[1:]
	ok = true

	return
}

func TestMemoryReadWrite(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	assert.Equal(uint16(0), m.Read(0x3000))

	m.Write(0x3000, 0x1234)
	m.Write(0xffff, 0xabcd)

	assert.Equal(uint16(0x1234), m.Read(0x3000))
	assert.Equal(uint16(0xabcd), m.Read(0xffff))
}

func TestKeyboardStatus(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{Keyboard: &queuePoller{queue: []byte{'a'}}}

	// Pending input: ready bit set, byte latched into the data register.
	assert.Equal(FL_KBSR_READY, m.Read(MR_KBSR))
	assert.Equal(uint16('a'), m.Read(MR_KBDR))

	// Input exhausted: ready bit cleared, data register unchanged.
	assert.Equal(uint16(0), m.Read(MR_KBSR))
	assert.Equal(uint16('a'), m.Read(MR_KBDR))
}

func TestKeyboardMissing(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	m.Write(MR_KBSR, 0xffff)
	assert.Equal(uint16(0), m.Read(MR_KBSR))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	m := &Memory{}

	defines := map[string]string{}
	for attr, val := range m.Defines() {
		defines[attr] = val
	}

	assert.Equal("0xfe00", defines["KBSR"])
	assert.Equal("0xfe02", defines["KBDR"])
}
