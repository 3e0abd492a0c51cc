package models

// Student represents a registered student profile. The roll number doubles as
// the map key inside users.json, so it is repeated in the value for
// convenience when records travel without their key.
type Student struct {
	RollNo   string `json:"roll_no"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Branch   string `json:"branch"`
	Year     string `json:"year"`
	Batch    string `json:"batch"`
	Email    string `json:"email"`
}

// Faculty represents a registered faculty profile, keyed by faculty id in
// faculty.json.
type Faculty struct {
	FacultyID  string `json:"faculty_id"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Email      string `json:"email"`
}
