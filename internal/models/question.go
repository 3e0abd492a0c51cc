package models

// OptionKeys is the fixed display order of MCQ options.
var OptionKeys = []string{"A", "B", "C", "D"}

// Options holds the four answer choices of an MCQ.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the option text for a letter key.
func (o Options) Get(key string) string {
	switch key {
	case "A":
		return o.A
	case "B":
		return o.B
	case "C":
		return o.C
	case "D":
		return o.D
	default:
		return ""
	}
}

// Question is a single MCQ. IDs are integers assigned monotonically across
// the whole question document; PracticalID ties the question to its
// practical.
type Question struct {
	ID          int     `json:"id"`
	PracticalID string  `json:"practical_id"`
	Question    string  `json:"question"`
	Options     Options `json:"options"`
	Answer      string  `json:"answer"`
}
