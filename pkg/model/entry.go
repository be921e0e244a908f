package model

// DirEntry is an item returned when listing the attachments of a container
type DirEntry struct {
	Name  string `json:"file"`
	IsDir bool   `json:"isDir"`
	Size  int64  `json:"size,omitempty"`
}

// FileRecord is the logical identity of an attachment
type FileRecord struct {
	Namespace string
	Path      string
}

// Attachment is a named byte blob stored under a container object
type Attachment struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType,omitempty"`
}
