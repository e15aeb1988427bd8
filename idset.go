package popfilter

import (
	"context"
	"sort"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// IDSet is a set of sample identifiers.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	out := make(IDSet, len(ids))
	for _, id := range ids {
		out.Add(id)
	}

	return out
}

func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

func (s IDSet) Contains(id string) bool {
	_, exists := s[id]
	return exists
}

func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}

// LoadKeepIDs returns the distinct values found in the 0-based idColumn of
// every line of the keep file that has that many columns. Duplicates collapse
// silently.
func LoadKeepIDs(ctx context.Context, path string, idColumn int, client *storage.Client) (IDSet, error) {
	keep, err := OpenKeepList(ctx, path, idColumn, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer keep.Close()

	ids := make(IDSet)
	for row := keep.Read(); row != nil; row = keep.Read() {
		ids.Add(row.IID)
	}

	if err := keep.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return ids, nil
}
