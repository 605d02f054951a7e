package classfile

import "encoding/binary"

// cursor is a forward-only binary reader over a class-file's raw bytes.
// Every read returns a *DecodeError rather than panicking, so the caller
// can fail one entry's decode cleanly and move on to the next one
// instead of aborting the whole run.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) u1() (uint8, error) {
	if c.pos+1 > len(c.data) {
		return 0, truncated()
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u2() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, truncated()
	}
	v := binary.BigEndian.Uint16(c.data[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

func (c *cursor) u4() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, truncated()
	}
	v := binary.BigEndian.Uint32(c.data[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, truncated()
	}
	v := c.data[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

func (c *cursor) skip(n int) error {
	if n < 0 || c.pos+n > len(c.data) {
		return truncated()
	}
	c.pos += n
	return nil
}

func truncated() error {
	return &DecodeError{Kind: TruncatedClassFile, Message: "unexpected end of class file"}
}
