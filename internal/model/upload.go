package model

const (
	UploadStatusStored = "stored"
	UploadStatusParsed = "parsed"
	UploadStatusFailed = "failed"
)

// Upload records a stored file and the text extracted from it. When
// extraction succeeds the text is also materialized as a Document so it
// can be summarized and queried like any other.
type Upload struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	DocumentID    string `json:"document_id,omitempty"`
	Filename      string `json:"filename"`
	FileKey       string `json:"file_key"`
	ContentType   string `json:"content_type"`
	Size          int64  `json:"size"`
	ExtractedText string `json:"extracted_text,omitempty"`
	Status        string `json:"status"`
	Ctime         int64  `json:"ctime"`
	Mtime         int64  `json:"mtime"`
}
