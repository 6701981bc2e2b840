package searchquery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/crateq/internal/keys"
	"github.com/llehouerou/crateq/internal/library"
)

func TestKeyFilter(t *testing.T) {
	exact := NewKeyFilter(keys.AMinor, false)
	assert.Equal(t, "key_id IS 22", exact.ToSQL())
	assert.True(t, exact.Match(&library.Track{Key: keys.AMinor}))
	assert.False(t, exact.Match(&library.Track{Key: keys.CMajor}))

	fuzzy := NewKeyFilter(keys.AMinor, true)
	assert.Equal(t, "(key_id IS 22) OR (key_id IS 1) OR (key_id IS 17) OR (key_id IS 15)", fuzzy.ToSQL())
	for _, k := range []keys.ChromaticKey{keys.AMinor, keys.CMajor, keys.EMinor, keys.DMinor} {
		assert.True(t, fuzzy.Match(&library.Track{Key: k}), k.String())
	}
	assert.False(t, fuzzy.Match(&library.Track{Key: keys.GMajor}))
	assert.False(t, fuzzy.Match(&library.Track{}))

	none := NewKeyFilter(keys.Invalid, true)
	assert.Equal(t, "key_id IS 0", none.ToSQL())
	assert.True(t, none.Match(&library.Track{}))
}
