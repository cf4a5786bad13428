package anonymize

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// StudyIDLimit is the exclusive upper bound of generated Study IDs.
	StudyIDLimit int64 = 100000000000

	// StudyIDWidth is the fixed width of a formatted Study ID.
	StudyIDWidth = 16
)

// Source is the part of *rand.Rand used to draw Study IDs.
type Source interface {
	Int63n(n int64) int64
}

// StudyIDGenerator draws one random Study ID per call. It is not safe for
// concurrent use, which is fine because files are processed one at a time.
type StudyIDGenerator struct {
	src Source
}

func NewStudyIDGenerator(src Source) *StudyIDGenerator {
	return &StudyIDGenerator{src: src}
}

// NewClockSeededStudyIDGenerator seeds a generator once for the whole run.
func NewClockSeededStudyIDGenerator() *StudyIDGenerator {
	return NewStudyIDGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Next draws from [0, StudyIDLimit) and formats the result.
func (g *StudyIDGenerator) Next() string {
	return FormatStudyID(g.src.Int63n(StudyIDLimit))
}

// FormatStudyID left-pads n with zeros to StudyIDWidth characters.
func FormatStudyID(n int64) string {
	return fmt.Sprintf("%0*d", StudyIDWidth, n)
}
