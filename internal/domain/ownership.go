package domain

// Record is any teacher-owned content document.
type Record interface {
	RecordID() string
	OwnerID() string
}

// OwnedBy reports whether callerID may mutate rec.
func OwnedBy(rec Record, callerID string) bool {
	return callerID != "" && rec.OwnerID() == callerID
}

func (q Quiz) RecordID() string { return q.ID }
func (q Quiz) OwnerID() string  { return q.TeacherID }

func (v Video) RecordID() string { return v.ID }
func (v Video) OwnerID() string  { return v.TeacherID }

func (n Note) RecordID() string { return n.ID }
func (n Note) OwnerID() string  { return n.TeacherID }

func (iq ImportantQuestion) RecordID() string { return iq.ID }
func (iq ImportantQuestion) OwnerID() string  { return iq.TeacherID }
