package iterators

import (
	"testing"

	"github.com/stretchr/testify/require"

	"strata/internal/common"
)

type kv struct {
	key   string
	value string
}

func drainMerge(t *testing.T, m *MergeIterator[*sliceIterator]) []kv {
	t.Helper()
	var out []kv
	for m.IsValid() {
		out = append(out, kv{key: string(m.Key()), value: string(m.Value())})
		require.NoError(t, m.Next())
	}
	return out
}

// TestMergeIteratorShadowing is spec scenario S3: a later source's key
// is shadowed by an earlier source that already produced it.
func TestMergeIteratorShadowing(t *testing.T) {
	iter0 := newSliceIterator([]common.Entry{entry("k1", "A"), entry("k2", "A")})
	iter1 := newSliceIterator([]common.Entry{entry("k1", "B"), entry("k3", "B")})

	m := NewMergeIterator([]*sliceIterator{iter0, iter1})

	require.Equal(t, []kv{
		{"k1", "A"},
		{"k2", "A"},
		{"k3", "B"},
	}, drainMerge(t, m))
}

// TestMergeIteratorTieOnManySources is spec scenario S4: every source
// yields the same key, only the lowest-index source's value survives,
// and all sources advance together.
func TestMergeIteratorTieOnManySources(t *testing.T) {
	iters := []*sliceIterator{
		newSliceIterator([]common.Entry{entry("k1", "V0")}),
		newSliceIterator([]common.Entry{entry("k1", "V1")}),
		newSliceIterator([]common.Entry{entry("k1", "V2")}),
		newSliceIterator([]common.Entry{entry("k1", "V3")}),
	}

	m := NewMergeIterator(iters)

	require.True(t, m.IsValid())
	require.Equal(t, common.Key("k1"), m.Key())
	require.Equal(t, []byte("V0"), m.Value())

	require.NoError(t, m.Next())
	require.False(t, m.IsValid())

	for _, it := range iters {
		require.False(t, it.IsValid())
	}
}

func TestMergeIteratorEmpty(t *testing.T) {
	m := NewMergeIterator([]*sliceIterator{
		newSliceIterator(nil),
		newSliceIterator(nil),
	})
	require.False(t, m.IsValid())
	require.Nil(t, m.Key())
	require.Nil(t, m.Value())
	require.NoError(t, m.Next())
}

func TestMergeIteratorSingleSource(t *testing.T) {
	iter0 := newSliceIterator([]common.Entry{entry("k1", "A"), entry("k2", "B"), entry("k3", "C")})
	m := NewMergeIterator([]*sliceIterator{iter0})

	require.Equal(t, []kv{
		{"k1", "A"},
		{"k2", "B"},
		{"k3", "C"},
	}, drainMerge(t, m))
}

func TestMergeIteratorManySourcesInterleaved(t *testing.T) {
	iter0 := newSliceIterator([]common.Entry{entry("a", "0"), entry("d", "0")})
	iter1 := newSliceIterator([]common.Entry{entry("b", "1")})
	iter2 := newSliceIterator([]common.Entry{entry("c", "2"), entry("e", "2")})

	m := NewMergeIterator([]*sliceIterator{iter0, iter1, iter2})

	require.Equal(t, []kv{
		{"a", "0"},
		{"b", "1"},
		{"c", "2"},
		{"d", "0"},
		{"e", "2"},
	}, drainMerge(t, m))
}
