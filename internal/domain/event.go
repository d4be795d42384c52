package domain

// UploadEvent announces that an original image was stored and is waiting for compression.
type UploadEvent struct {
	MediaID              MediaID
	ExternalIDFull       string
	ExternalIDCompressed string
	ContentType          string
	Format               Format
}

// CompletionEvent is emitted once the compressed object exists under ExternalIDCompressed.
type CompletionEvent struct {
	MediaID              MediaID
	ExternalIDCompressed string
}

// ImageBlob holds the fetched original. It is owned by a single pipeline run.
type ImageBlob struct {
	Data         []byte
	Format       Format
	DeclaredType string
	DetectedType string
}

func (b *ImageBlob) Size() int64 {
	return int64(len(b.Data))
}

type CompressedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}
