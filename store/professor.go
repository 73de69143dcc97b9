package store

// Professor is one entry in the directory the matcher ranks against.
// ResearchAreas, Achievements and Projects are stored as JSON columns;
// the drivers handle the encoding.
type Professor struct {
	ID            int32
	Name          string
	Department    string
	Title         string
	Introduction  string
	ResearchAreas []string
	Achievements  []Achievement
	Projects      []Project
	CreatedTs     int64
	UpdatedTs     int64
}

// Achievement is a representative research output of a professor.
type Achievement struct {
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is an ongoing or past research project of a professor.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type FindProfessor struct {
	ID *int32
	// Name matches by substring, for deep-dive lookups on a mentioned name.
	Name  *string
	Limit *int
}

type FindAchievement struct {
	ProfessorID *int32
	// Keyword matches achievement titles and descriptions by substring.
	Keyword *string
	Limit   *int
}

// ProfessorAchievement is an achievement joined with its owner, the shape
// achievement queries render from.
type ProfessorAchievement struct {
	ProfessorID   int32
	ProfessorName string
	Achievement
}
