package id

import (
	"bytes"
	cryptoRand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable.
	// ulid.Monotonic keeps IDs generated within the same millisecond
	// lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a time-sortable ULID string.
//
// Used for journal rows, never for anything the scoring core derives:
// the core must stay reproducible.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Errors are extremely unlikely unless time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

// separator never appears in ids or structural fields.
const separator = "\x1f"

// Derive returns a ULID whose entropy is the SHA-256 of parts, with a zero
// timestamp. The same parts always give the same id.
func Derive(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, separator)))

	id, err := ulid.New(0, bytes.NewReader(sum[:]))
	if err != nil {
		// A bytes.Reader over 32 bytes always satisfies the 10 byte read.
		panic(err)
	}
	return id.String()
}
