package popfilter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// KeepList streams the rows of a whitespace-delimited sample keep file, such as
// the ones produced for `plink --keep`.
type KeepList struct {
	idColumn int
	file     ReadSeekCloser
	rdr      io.ReadCloser
	scanner  *bufio.Scanner
}

// OpenKeepList opens the keep file at path (local or gs://, optionally
// compressed). idColumn is the 0-based column that holds the sample ID.
func OpenKeepList(ctx context.Context, path string, idColumn int, client *storage.Client) (*KeepList, error) {
	if idColumn < 0 {
		return nil, fmt.Errorf("keep file ID column must not be negative, got %d", idColumn)
	}

	keep := &KeepList{
		idColumn: idColumn,
	}

	file, _, err := MaybeOpenSeekerFromGoogleStorage(ctx, path, client)
	if err != nil {
		return nil, err
	}
	keep.file = file

	rdr, _, err := MaybeDecompressReadCloser(file)
	if err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}
	keep.rdr = rdr
	keep.scanner = bufio.NewScanner(rdr)
	keep.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return keep, nil
}

func (k *KeepList) Close() error {
	err := k.rdr.Close()
	if ferr := k.file.Close(); err == nil {
		err = ferr
	}

	return err
}

func (k *KeepList) Err() error {
	return k.scanner.Err()
}

// Read returns the next row that has an ID column, silently skipping lines
// that are too short. It returns nil at the end of the file or on error; check
// Err to tell them apart.
func (k *KeepList) Read() *KeepRow {
	for k.scanner.Scan() {
		cols := strings.Fields(k.scanner.Text())
		if len(cols) <= k.idColumn {
			continue
		}

		row := &KeepRow{IID: cols[k.idColumn]}
		if k.idColumn != KeepFID {
			row.FID = cols[KeepFID]
		}

		return row
	}

	return nil
}
