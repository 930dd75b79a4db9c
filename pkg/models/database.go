package models

// Database is the full persisted snapshot. It is the single durable copy of
// all board data; every mutation rewrites it whole.
type Database struct {
	Tasks    []Task    `json:"tasks" yaml:"tasks"`
	Users    []User    `json:"users" yaml:"users"`
	Projects []Project `json:"projects" yaml:"projects"`
}

// EmptyDatabase returns a snapshot with all collections initialized to
// empty (non-nil) slices so it serializes as [] rather than null.
func EmptyDatabase() Database {
	return Database{
		Tasks:    []Task{},
		Users:    []User{},
		Projects: []Project{},
	}
}

// Clone returns a deep copy of the snapshot.
func (db Database) Clone() Database {
	out := Database{
		Tasks:    make([]Task, len(db.Tasks)),
		Users:    make([]User, len(db.Users)),
		Projects: make([]Project, len(db.Projects)),
	}
	for i, t := range db.Tasks {
		if t.DueDate != nil {
			due := *t.DueDate
			t.DueDate = &due
		}
		out.Tasks[i] = t
	}
	copy(out.Users, db.Users)
	for i, p := range db.Projects {
		p.Members = append([]string(nil), p.Members...)
		out.Projects[i] = p
	}
	return out
}
