package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quinlan-lab/bedder-go/position"
	"github.com/quinlan-lab/bedder-go/sweep"
)

func ix(a position.Position, bs ...sweep.Intersection) *sweep.Intersections {
	return &sweep.Intersections{Base: position.NewShared(a), Overlapping: bs}
}

func ov(id int, p position.Position) sweep.Intersection {
	return sweep.Intersection{Interval: position.NewShared(p), ID: id}
}

func TestProjectDefaultWholeReportsAllGroups(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	rec := ix(a,
		ov(0, position.NewInterval("chr1", 10, 20)),
		ov(1, position.NewInterval("chr1", 50, 60)),
	)
	rep := Project(rec, Options{APiece: PieceWhole, BPiece: PieceWhole})
	require.Len(t, rep, 2)
	assert.Equal(t, 0, rep[0].ID)
	assert.Equal(t, 1, rep[1].ID)
	require.Len(t, rep[0].B, 1)
	assert.Equal(t, int64(10), rep[0].B[0].Position().Start())
}

// S3: a requirement threshold excludes groups whose union overlap with A
// falls short.
func TestProjectARequirementThreshold(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	rec := ix(a,
		ov(0, position.NewInterval("chr1", 0, 10)),  // 10 bases overlap
		ov(1, position.NewInterval("chr1", 0, 60)),  // 60 bases overlap
	)
	rep := Project(rec, Options{APiece: PieceWhole, BPiece: PieceWhole, AReq: Bases(50)})
	require.Len(t, rep, 1)
	assert.Equal(t, 1, rep[0].ID)
}

func TestProjectBRequirementThreshold(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	rec := ix(a,
		ov(0, position.NewInterval("chr1", 0, 5)),   // 5 bases: too short
		ov(0, position.NewInterval("chr1", 10, 40)), // 30 bases: long enough
	)
	rep := Project(rec, Options{APiece: PieceWhole, BPiece: PieceWhole, BReq: Bases(20)})
	require.Len(t, rep, 1)
	require.Len(t, rep[0].B, 1)
	assert.Equal(t, int64(10), rep[0].B[0].Position().Start())
}

func TestProjectFractionRequirementCeiling(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	// b overlaps exactly 25 of A's 100 bases: a 25% requirement should
	// pass; a fractional requirement needing 26 bases (25.4% ceiling to
	// 26) should fail.
	rec := ix(a, ov(0, position.NewInterval("chr1", 0, 25)))
	repExact := Project(rec, Options{APiece: PieceWhole, BPiece: PieceWhole, AReq: Fraction(0.25)})
	require.Len(t, repExact, 1)

	repTooStrict := Project(rec, Options{APiece: PieceWhole, BPiece: PieceWhole, AReq: Fraction(0.254)})
	assert.Empty(t, repTooStrict)
}

// S4: Not mode reports A alone exactly when it does NOT satisfy the
// requirement against the combined union of all Bs.
func TestProjectNotModeReportsAOnlyWhenUnsatisfied(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	recNoOverlap := ix(a)
	rep := Project(recNoOverlap, Options{AMode: Not, APiece: PieceWhole, AReq: Bases(1)})
	require.Len(t, rep, 1)
	assert.Equal(t, AOnlyID, rep[0].ID)
	assert.Nil(t, rep[0].B)

	recOverlap := ix(a, ov(0, position.NewInterval("chr1", 0, 100)))
	rep2 := Project(recOverlap, Options{AMode: Not, APiece: PieceWhole, AReq: Bases(1)})
	assert.Empty(t, rep2)
}

// S5: Inverse piece emits the uncovered sub-intervals of A.
func TestProjectInversePieceOfA(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	rec := ix(a,
		ov(0, position.NewInterval("chr1", 10, 20)),
		ov(1, position.NewInterval("chr1", 15, 30)),
		ov(0, position.NewInterval("chr1", 80, 90)),
	)
	rep := Project(rec, Options{APiece: PieceInverse})
	require.Len(t, rep, 3)
	assert.Equal(t, int64(0), rep[0].A.Position().Start())
	assert.Equal(t, int64(10), rep[0].A.Position().Stop())
	assert.Equal(t, int64(30), rep[1].A.Position().Start())
	assert.Equal(t, int64(80), rep[1].A.Position().Stop())
	assert.Equal(t, int64(90), rep[2].A.Position().Start())
	assert.Equal(t, int64(100), rep[2].A.Position().Stop())
}

// Two overlapping bs covering the same region of A must not double-count
// the union overlap (the over-counting bug this package fixes).
func TestUnionOverlapDoesNotDoubleCount(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	bs := []position.Position{
		position.NewInterval("chr1", 0, 60),
		position.NewInterval("chr1", 40, 100),
	}
	assert.Equal(t, int64(100), unionOverlapBases(a, bs))
}

func TestFragmentDistance(t *testing.T) {
	a := position.NewInterval("chr1", 100, 200)
	overlapping := position.NewShared(position.NewInterval("chr1", 150, 160))
	f := Fragment{A: position.NewShared(a), B: []*position.Shared{overlapping}}
	assert.Equal(t, int64(0), f.Distance())

	far := position.NewShared(position.NewInterval("chr1", 250, 300))
	f2 := Fragment{A: position.NewShared(a), B: []*position.Shared{far}}
	assert.Equal(t, int64(50), f2.Distance())

	empty := Fragment{A: position.NewShared(a)}
	assert.Equal(t, DistanceUnbounded, empty.Distance())
}

func TestCountOverlapsAndBasesByID(t *testing.T) {
	a := position.NewInterval("chr1", 0, 100)
	rec := ix(a,
		ov(0, position.NewInterval("chr1", 0, 10)),
		ov(1, position.NewInterval("chr1", 50, 65)),
	)
	rep := Project(rec, Options{APiece: PieceWhole, BPiece: PieceWhole})
	counts := rep.CountOverlapsByID()
	bases := rep.CountBasesByID()
	assert.Equal(t, 1, counts[0])
	assert.Equal(t, 1, counts[1])
	assert.Equal(t, int64(10), bases[0])
	assert.Equal(t, int64(15), bases[1])
}

func TestParseRequirement(t *testing.T) {
	r, err := ParseRequirement("10")
	require.NoError(t, err)
	assert.True(t, r.Satisfies(10, 1000))
	assert.False(t, r.Satisfies(9, 1000))

	r2, err := ParseRequirement("50%")
	require.NoError(t, err)
	assert.True(t, r2.Satisfies(50, 100))
	assert.False(t, r2.Satisfies(49, 100))

	_, err = ParseRequirement("not-a-number")
	assert.Error(t, err)
}

func TestParseModeAndPiece(t *testing.T) {
	m, err := ParseMode("not")
	require.NoError(t, err)
	assert.Equal(t, Not, m)

	p, err := ParsePiece("inverse")
	require.NoError(t, err)
	assert.Equal(t, PieceInverse, p)

	_, err = ParseMode("bogus")
	assert.Error(t, err)
}
