package filestore

// Record is one stored document. Attributes is exactly what is written to
// (or was read from) the record file, the id included.
type Record struct {
	Collection string
	ID         string
	Attributes map[string]any
}

func (r *Record) attributes() map[string]any {
	return r.Attributes
}
