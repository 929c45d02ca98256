package transport

import (
	"bufio"
	"encoding/binary"
	"io"
	"io/ioutil"
	"sync"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/util/envconst"
)

func maxMessageSize() int64 {
	return envconst.Int64("SOCKETRPC_MAX_MESSAGE_SIZE", 64<<20)
}

// StreamConn frames protobuf messages on a Wire.
//
// In delimited mode, every message is prefixed with its length as a base-128 varint
// and any number of messages may be exchanged in each direction.
//
// In undelimited mode, the extent of a message is the extent of the stream:
// Send half-closes the write side after the message and Receive reads until EOF.
// Consequently, exactly one message can be exchanged in each direction.
type StreamConn struct {
	wire      Wire
	delimited bool

	readMtx  sync.Mutex
	r        *bufio.Reader
	writeMtx sync.Mutex
	w        *bufio.Writer

	closeMtx sync.Mutex
	closed   bool
}

var _ Connection = (*StreamConn)(nil)

func NewStreamConn(wire Wire, delimited bool) *StreamConn {
	return &StreamConn{
		wire:      wire,
		delimited: delimited,
		r:         bufio.NewReader(wire),
		w:         bufio.NewWriter(wire),
	}
}

func (c *StreamConn) Delimited() bool { return c.delimited }

func (c *StreamConn) Send(msg proto.Message) error {
	c.writeMtx.Lock()
	defer c.writeMtx.Unlock()

	if c.IsClosed() {
		return ErrClosed
	}

	buf, err := proto.Marshal(msg)
	if err != nil {
		return &CodecError{"marshal", err}
	}

	if c.delimited {
		if _, err := c.w.Write(proto.EncodeVarint(uint64(len(buf)))); err != nil {
			return errors.Wrap(err, "cannot write length prefix")
		}
	}
	if _, err := c.w.Write(buf); err != nil {
		return errors.Wrap(err, "cannot write message")
	}
	if err := c.w.Flush(); err != nil {
		return errors.Wrap(err, "cannot flush message")
	}
	if !c.delimited {
		if err := c.wire.CloseWrite(); err != nil {
			return errors.Wrap(err, "cannot close write side")
		}
	}
	prom.messages.WithLabelValues(directionSend).Inc()
	prom.bytes.WithLabelValues(directionSend).Add(float64(len(buf)))
	return nil
}

// Receive returns an error with cause io.EOF if the peer closed the connection
// before the first byte of a delimited message.
func (c *StreamConn) Receive(msg proto.Message) error {
	c.readMtx.Lock()
	defer c.readMtx.Unlock()

	if c.IsClosed() {
		return ErrClosed
	}

	var buf []byte
	if c.delimited {
		n, err := binary.ReadUvarint(c.r)
		if err != nil {
			return errors.Wrap(err, "cannot read length prefix")
		}
		if n > uint64(maxMessageSize()) {
			return errors.Wrapf(ErrMessageTooLarge, "length prefix %d", n)
		}
		buf = make([]byte, n)
		if _, err := io.ReadFull(c.r, buf); err != nil {
			return errors.Wrap(err, "cannot read message")
		}
	} else {
		max := maxMessageSize()
		var err error
		buf, err = ioutil.ReadAll(io.LimitReader(c.r, max+1))
		if err != nil {
			return errors.Wrap(err, "cannot read message")
		}
		if int64(len(buf)) > max {
			return ErrMessageTooLarge
		}
	}

	if err := proto.Unmarshal(buf, msg); err != nil {
		return &CodecError{"unmarshal", err}
	}
	prom.messages.WithLabelValues(directionReceive).Inc()
	prom.bytes.WithLabelValues(directionReceive).Add(float64(len(buf)))
	return nil
}

func (c *StreamConn) Close() error {
	c.closeMtx.Lock()
	defer c.closeMtx.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.wire.Close()
}

func (c *StreamConn) IsClosed() bool {
	c.closeMtx.Lock()
	defer c.closeMtx.Unlock()
	return c.closed
}
