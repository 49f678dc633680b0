package reconcile

// Tally aggregates results into a Summary.
func Tally(results ...Result) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r.Action)
	}
	return s
}

// Add counts one action.
func (s *Summary) Add(a Action) {
	switch a {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionSkipped:
		s.Skipped++
	case ActionFailed:
		s.Failed++
	}
}

// Merge adds other's counts into s.
func (s *Summary) Merge(other Summary) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// Total returns the number of counted entities.
func (s Summary) Total() int {
	return s.Created + s.Updated + s.Skipped + s.Failed
}
