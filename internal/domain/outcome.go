package domain

type OutcomeKind string

const (
	OutcomeCompressed    OutcomeKind = "compressed"
	OutcomePassedThrough OutcomeKind = "passed_through"
	OutcomeUnrecognized  OutcomeKind = "unrecognized"
)

// Outcome describes what the pipeline did with a successfully handled event.
type Outcome struct {
	Kind           OutcomeKind
	MediaID        MediaID
	Format         Format
	ContentType    string
	OriginalSize   int64
	CompressedSize int64
	Width          int
	Height         int
}

// Stored reports whether the compressed key was written.
func (o Outcome) Stored() bool {
	return o.Kind == OutcomeCompressed || o.Kind == OutcomePassedThrough
}

func (o Outcome) BytesSaved() int64 {
	if o.Kind != OutcomeCompressed || o.CompressedSize >= o.OriginalSize {
		return 0
	}
	return o.OriginalSize - o.CompressedSize
}
