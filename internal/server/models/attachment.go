package models

import "time"

// Attachment describes server-side metadata for a file linked to a task.
// The payload itself lives in object storage under StorageKey; clients
// upload and download it through presigned URLs.
type Attachment struct {
	ID         int64
	TaskID     int64
	FileName   string
	StorageKey string
	Size       int64
	CreatedAt  time.Time
}

// AttachmentUploadTicket tells the client where to PUT the file bytes.
type AttachmentUploadTicket struct {
	Attachment *Attachment
	// URL is a temporary presigned HTTP URL.
	URL string
}
