package quiz

// Set holds the quizzes of one rendered article, keyed by section id. Putting
// a quiz under an existing id replaces the previous one wholesale.
//
// A Set is owned by a single article view and is not safe for concurrent use.
type Set struct {
	quizzes map[string]*Quiz
	ids     []string
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{quizzes: make(map[string]*Quiz)}
}

// Put stores q under id.
func (s *Set) Put(id string, q *Quiz) {
	if _, ok := s.quizzes[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.quizzes[id] = q
}

// Get returns the quiz stored under id.
func (s *Set) Get(id string) (*Quiz, bool) {
	q, ok := s.quizzes[id]
	return q, ok
}

// IDs returns the section ids in insertion order.
func (s *Set) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of quizzes.
func (s *Set) Len() int {
	return len(s.quizzes)
}
