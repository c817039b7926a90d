package model

// Document is a stored legal document. Summary lives in its own table
// and is attached on reads; it is empty until something summarizes the
// document.
type Document struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty"`
	Summary  string `json:"summary,omitempty"`
	State    int    `json:"state"`
	Ctime    int64  `json:"ctime"`
	Mtime    int64  `json:"mtime"`
}
