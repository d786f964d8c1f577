package model

import "time"

// Document describes one uploaded image: the synthesized display name, the
// media host's object handle (needed for deletion), and the public URL.
// It is a record about the object, distinct from the object itself.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ObjectID  string    `json:"object_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
