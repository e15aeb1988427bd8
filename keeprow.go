package popfilter

// Map columns in a PLINK-style keep file to their positions
const (
	KeepFID int = iota
	KeepIID
)

type KeepRow struct {
	FID string // Read but not used for matching
	IID string
}
