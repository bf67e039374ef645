package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericAccessors(t *testing.T) {
	g := NewBED("chr1", 100, 200, "feature-a")
	assert.Equal(t, KindBED, g.Kind())
	assert.Equal(t, "chr1", g.Chrom())
	assert.Equal(t, int64(100), g.Start())
	assert.Equal(t, int64(200), g.Stop())
	name, ok := g.Name()
	assert.True(t, ok)
	assert.Equal(t, "feature-a", name)
	assert.Equal(t, int64(100), Len(g))
}

func TestGenericNoName(t *testing.T) {
	g := NewInterval("chr1", 0, 10)
	_, ok := g.Name()
	assert.False(t, ok)
}

func TestFieldSetByNameAndIndex(t *testing.T) {
	var fs FieldSet
	fs.Set("score", IntValue(42))
	fs.Set("label", StringValue("hi"))

	v, err := fs.Get(FieldByName("score"))
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)

	v, err = fs.Get(FieldByIndex(1))
	require.NoError(t, err)
	s, ok := v.Str()
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	_, err = fs.Get(FieldByName("missing"))
	assert.Error(t, err)

	_, err = fs.Get(FieldByIndex(5))
	assert.Error(t, err)
}

func TestFieldSetOverwritePreservesOrder(t *testing.T) {
	var fs FieldSet
	fs.Set("a", IntValue(1))
	fs.Set("b", IntValue(2))
	fs.Set("a", IntValue(3))
	assert.Equal(t, 2, fs.Len())
	v, err := fs.Get(FieldByIndex(0))
	require.NoError(t, err)
	i, _ := v.Int()
	assert.Equal(t, int64(3), i)
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewInterval("chr1", 10, 20)
	clone := g.Clone()
	clone.Begin = 15
	assert.Equal(t, int64(10), g.Start())
	assert.Equal(t, int64(15), clone.Start())
}

func TestSharedPosition(t *testing.T) {
	s := NewShared(NewInterval("chr2", 5, 9))
	assert.Equal(t, "chr2", s.Position().Chrom())
	require.True(t, s.TryLock())
	s.Unlock()
}
