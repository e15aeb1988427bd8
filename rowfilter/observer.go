package rowfilter

// HeaderAdjustment describes a header whose first two columns were relabeled
// as FID and IID.
type HeaderAdjustment struct {
	Original [2]string

	// Swapped is set when the original labels were IID then FID. The relabeling
	// is positional, so the column that used to be called IID is now called
	// FID. Callers should warn: the data itself is not reordered.
	Swapped bool
}

// Observer receives events from a running Filter.
type Observer interface {
	HeaderAdjusted(HeaderAdjustment)
	Progress(Counts)
}

type NopObserver struct{}

func (NopObserver) HeaderAdjusted(HeaderAdjustment) {}
func (NopObserver) Progress(Counts) {}
