package attachments

import "github.com/google/uuid"

// Attachment is the normalized, size-bounded image record produced by the
// intake pipeline and embedded in a task draft. The payload travels inline as
// a data URL; persistence of the surrounding task is a collaborator concern.
type Attachment struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	BaseName  string `json:"base_name"`
	Extension string `json:"extension"`
	MIMEType  string `json:"mime_type"`
	// Size is derived from the encoded payload length, never from the
	// source file. See EstimateEncodedSize.
	Size    int64  `json:"size"`
	DataURL string `json:"data_url"`
	// Digest is the sha256 fingerprint of the encoded payload when the
	// attachment has been offloaded to the content store; empty otherwise.
	Digest string `json:"digest,omitempty"`
}

// NewID returns a fresh attachment identifier. Identity drives removal
// semantics, so two attachments built from identical bytes remain distinct.
func NewID() string {
	return "att-" + uuid.New().String()
}

// TotalSize sums the encoded sizes of a collection.
func TotalSize(list []Attachment) int64 {
	var total int64
	for _, att := range list {
		total += att.Size
	}
	return total
}

// FindByID returns the first attachment with the given ID.
func FindByID(list []Attachment, id string) (Attachment, bool) {
	for _, att := range list {
		if att.ID == id {
			return att, true
		}
	}
	return Attachment{}, false
}

// Remove returns list without the first entry matching target's ID. When no
// entry matches, the input slice is returned unchanged, so removing twice
// equals removing once.
func Remove(list []Attachment, target Attachment) []Attachment {
	return RemoveByID(list, target.ID)
}

// RemoveByID removes the first entry with the given ID, preserving order.
func RemoveByID(list []Attachment, id string) []Attachment {
	for i, att := range list {
		if att.ID == id {
			out := make([]Attachment, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out
		}
	}
	return list
}
