package popfilter

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/klauspost/pgzip"
)

var BufferSize = 4096 * 8

// outputWriteCloser layers a buffer and, optionally, a gzip compressor on top
// of a destination. Close flushes and closes every layer from the top down and
// reports the first error it sees.
type outputWriteCloser struct {
	bufw *bufio.Writer
	gzw  *pgzip.Writer
	dst  io.WriteCloser
}

func (o *outputWriteCloser) Write(p []byte) (int, error) {
	return o.bufw.Write(p)
}

func (o *outputWriteCloser) Close() error {
	err := o.bufw.Flush()

	if o.gzw != nil {
		if cerr := o.gzw.Close(); err == nil {
			err = cerr
		}
	}

	if cerr := o.dst.Close(); err == nil {
		err = cerr
	}

	return err
}

// CreateOutput creates (or truncates) path for writing. Paths ending in .gz
// are gzip-compressed. gs:// paths are written to Google Storage when a client
// is provided; the object only becomes visible once Close succeeds.
func CreateOutput(ctx context.Context, path string, client *storage.Client) (io.WriteCloser, error) {
	var dst io.WriteCloser

	if client != nil && IsGoogleStoragePath(path) {
		bucketName, pathName, err := splitGSPath(path)
		if err != nil {
			return nil, err
		}
		dst = client.Bucket(bucketName).Object(pathName).NewWriter(ctx)
	} else {
		f, err := os.OpenFile(ExpandHome(path), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, pfx.Err(err)
		}
		dst = f
	}

	out := &outputWriteCloser{dst: dst}

	var w io.Writer = dst
	if strings.HasSuffix(path, ".gz") {
		out.gzw = pgzip.NewWriter(dst)
		w = out.gzw
	}
	out.bufw = bufio.NewWriterSize(w, BufferSize)

	return out, nil
}
