package session

import (
	"crypto/rand"
	"sync"
	"time"
)

// Session ids are ULIDs: 26 Crockford Base32 characters with a 48-bit
// millisecond timestamp prefix, so ids sort by creation time.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	idMu    sync.Mutex
	lastMs  uint64
	lastSeq uint16
)

func newID() string {
	idMu.Lock()
	defer idMu.Unlock()

	ms := uint64(time.Now().UnixMilli())
	if ms == lastMs {
		lastSeq++
	} else {
		lastMs = ms
		lastSeq = 0
	}

	var b [16]byte
	for i := 0; i < 6; i++ {
		b[i] = byte(ms >> (40 - 8*i))
	}
	rand.Read(b[6:])
	// A sequence counter in the first random bytes keeps ids unique
	// within one millisecond.
	b[6] = byte(lastSeq >> 8)
	b[7] = byte(lastSeq)

	// 128 bits -> 26 base32 characters, reading 5 bits at a time from
	// the top of the buffer.
	var out [26]byte
	for i := range out {
		hi := i * 5 / 8
		shift := 11 - uint(i*5%8)
		v := uint16(b[hi]) << 8
		if hi+1 < len(b) {
			v |= uint16(b[hi+1])
		}
		out[i] = crockford[(v>>shift)&31]
	}
	return string(out[:])
}
