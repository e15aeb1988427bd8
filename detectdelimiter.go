package popfilter

import (
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. The detector does not rank
// its candidates, so if preferred is one of them it is returned. If no
// candidate is found, preferred is returned.
func DetermineDelimiter(r io.Reader, preferred rune) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	for _, v := range delimiters {
		if rune(v[0]) == preferred {
			return preferred
		}
	}

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return preferred
}

// SniffDelimiter guesses the delimiter from sample, typically the first bytes
// of a table. Any trailing partial line is ignored.
func SniffDelimiter(sample []byte, preferred rune) rune {
	if i := bytes.LastIndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i+1]
	}

	return DetermineDelimiter(bytes.NewReader(sample), preferred)
}
