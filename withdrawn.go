package popfilter

import (
	"context"
	"encoding/csv"
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// LoadWithdrawnIDs reads a UK Biobank withdrawal file: one sample ID per line,
// no header. Blank lines are ignored.
func LoadWithdrawnIDs(ctx context.Context, path string, client *storage.Client) (IDSet, error) {
	f, _, err := MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	r, _, err := MaybeDecompressReadCloser(f)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer r.Close()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	withdrawals := make(IDSet)
	for {
		withdrawal, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		// Just one entry per line
		if len(withdrawal) < 1 || len(withdrawal[0]) <= 0 {
			continue
		}

		withdrawals.Add(withdrawal[0])
	}

	return withdrawals, nil
}

// Remove deletes every member of other from s and returns how many were
// present.
func (s IDSet) Remove(other IDSet) int {
	removed := 0
	for id := range other {
		if s.Contains(id) {
			delete(s, id)
			removed++
		}
	}

	return removed
}
