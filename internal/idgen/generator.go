// Package idgen produces human-readable, collision-free job identifiers.
package idgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixhub/fixhub/internal/model"
)

// maxSequence is the largest value representable in the 5-digit suffix.
const maxSequence = 99999

// ErrSequenceExhausted means a prefix has used all 5-digit sequence values.
var ErrSequenceExhausted = errors.New("job id sequence exhausted for prefix")

// SequenceProvider hands out the next value of an atomic, monotonically
// increasing counter keyed by identifier prefix. Implementations must be safe
// under concurrent job creation sharing a prefix; the SQLite provider does
// this with a conflict-resolving upsert inside the job transaction.
type SequenceProvider interface {
	NextSequence(ctx context.Context, prefix string) (int64, error)
}

// Generator builds identifiers of the form <Region>-<Type>-<00000>.
type Generator struct {
	seq SequenceProvider
}

// New creates a Generator over the given sequence provider.
func New(seq SequenceProvider) *Generator {
	return &Generator{seq: seq}
}

// Prefix derives the identifier prefix for a job type and branch,
// e.g. ("Repair", "North Plaza") -> "N-REP".
func Prefix(jobType model.JobType, branch string) string {
	return model.RegionFromBranch(branch).Code() + "-" + jobType.Code()
}

// Generate returns the next identifier for the branch and job type,
// e.g. "N-REP-00042". Sequences start at 1 per prefix and values past 99999
// are a fatal configuration error.
func (g *Generator) Generate(ctx context.Context, jobType model.JobType, branch string) (string, error) {
	prefix := Prefix(jobType, branch)

	n, err := g.seq.NextSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("next sequence for prefix %s: %w", prefix, err)
	}
	if n > maxSequence {
		return "", fmt.Errorf("%w: %s reached %d", ErrSequenceExhausted, prefix, n)
	}

	return fmt.Sprintf("%s-%05d", prefix, n), nil
}
