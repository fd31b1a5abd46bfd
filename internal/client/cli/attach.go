package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/taskforge/internal/filex"
	"github.com/dmitrijs2005/taskforge/internal/netx"
)

// maxUploadBytes bounds attachment uploads; larger files are rejected before
// any network traffic happens.
const maxUploadBytes = 32 << 20

// uploadFn is a test seam for the presigned-URL upload.
var uploadFn = netx.UploadToPresignedURL

// Attach uploads a local file as a task attachment.
//
// The flow is: read the file (size-limited), ask the API for an attachment
// ticket (metadata record plus a presigned PUT URL), then upload the bytes
// directly to object storage.
func (a *App) Attach(ctx context.Context) error {
	id, err := a.promptID("Enter task id to attach to")
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	path, err := getSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := filex.ReadLimited(path, maxUploadBytes)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	ticket, err := a.api.CreateAttachmentTicket(ctx, id, filepath.Base(path), int64(len(data)))
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := uploadFn(nil, ticket.UploadURL, data); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Printf("Uploaded %s as attachment %d\n", ticket.Attachment.FileName, ticket.Attachment.ID)
	return nil
}
