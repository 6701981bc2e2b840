package searchquery

import (
	"slices"
	"strconv"

	"github.com/llehouerou/crateq/internal/keys"
	"github.com/llehouerou/crateq/internal/library"
)

// KeyFilter matches tracks in a musical key. A fuzzy filter also matches
// the harmonically compatible keys.
type KeyFilter struct {
	keys []keys.ChromaticKey
}

func NewKeyFilter(key keys.ChromaticKey, fuzzy bool) *KeyFilter {
	if fuzzy {
		return &KeyFilter{keys: keys.Compatible(key)}
	}
	return &KeyFilter{keys: []keys.ChromaticKey{key}}
}

func (f *KeyFilter) Match(t *library.Track) bool {
	return slices.Contains(f.keys, t.Key)
}

func (f *KeyFilter) ToSQL() string {
	clauses := make([]string, 0, len(f.keys))
	for _, k := range f.keys {
		clauses = append(clauses, library.ColumnKeyID+" IS "+strconv.Itoa(int(k)))
	}
	return concatSQLClauses(clauses, sqlOr)
}
