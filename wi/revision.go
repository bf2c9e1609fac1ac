package wi

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Revision identifies a single counter write. Revisions issued by one
// generator sort in the order they were issued.
type Revision string

const InitialRevision = Revision("00000000000000000000000000")

// RevisionGenerator issues revisions that never go backwards, even when the
// clock does.
type RevisionGenerator struct {
	lk      sync.Mutex
	entropy *ulid.MonotonicEntropy
	last    uint64
}

func NewRevisionGenerator() *RevisionGenerator {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)

	return &RevisionGenerator{
		entropy: entropy,
	}
}

func (g *RevisionGenerator) NewRevision(t time.Time) Revision {
	g.lk.Lock()
	defer g.lk.Unlock()

	ms := ulid.Timestamp(t)
	if ms < g.last {
		ms = g.last
	}
	g.last = ms

	return Revision(ulid.MustNew(ms, g.entropy).String())
}

func (revision Revision) Timestamp() Timestamp {
	v := ulid.MustParse(string(revision))
	return TimestampFromTime(ulid.Time(v.Time()))
}

func (revision Revision) String() string {
	return string(revision)
}
