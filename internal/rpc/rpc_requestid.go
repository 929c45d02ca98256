package rpc

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// RequestID identifies one server-side exchange in log output.
type RequestID struct{ s string }

func (r RequestID) String() string { return r.s }

func newRequestID() RequestID {
	id := uuid.New()
	var buf strings.Builder
	enc := base64.NewEncoder(base64.RawStdEncoding, &buf)
	n, err := enc.Write(id[:])
	if err != nil {
		panic(err)
	} else if n != len(id) {
		panic(n)
	}
	if err := enc.Close(); err != nil {
		panic(err)
	}
	return RequestID{buf.String()}
}
