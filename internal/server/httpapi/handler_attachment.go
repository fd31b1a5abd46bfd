package httpapi

import "net/http"

func (s *HTTPServer) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	as, err := s.attachments.ListByTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]attachmentPayload, 0, len(as))
	for _, a := range as {
		out = append(out, toAttachmentPayload(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req attachmentCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ticket, err := s.attachments.CreateUploadTicket(r.Context(), id, req.FileName, req.Size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, attachmentTicketResponse{
		Attachment: toAttachmentPayload(ticket.Attachment),
		UploadURL:  ticket.URL,
	})
}

func (s *HTTPServer) handleAttachmentURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := s.attachments.GetDownloadURL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, attachmentURLResponse{URL: url})
}
