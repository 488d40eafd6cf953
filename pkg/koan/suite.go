package koan

import "fmt"

// Suite is an ordered collection of cases about one topic.
// Cases run in the order they were added.
type Suite struct {
	// Topic identifies the suite (e.g., "sets").
	Topic string

	// Description is shown above the suite in reports.
	Description string

	// Cases holds the koans in declaration order.
	Cases []Case

	names map[string]struct{}
}

// NewSuite creates an empty suite.
func NewSuite(topic, description string) *Suite {
	return &Suite{
		Topic:       topic,
		Description: description,
		names:       make(map[string]struct{}),
	}
}

// Add appends cases to the suite. It rejects unnamed cases,
// cases without an expression, and duplicate names. The batch
// is added whole or not at all.
func (s *Suite) Add(cases ...Case) error {
	if s.names == nil {
		s.names = make(map[string]struct{}, len(s.Cases))
		for _, c := range s.Cases {
			s.names[c.Name] = struct{}{}
		}
	}

	batch := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		if c.Name == "" {
			return fmt.Errorf(
				"suite %s: case name must not be empty",
				s.Topic,
			)
		}
		if c.Actual == nil {
			return fmt.Errorf(
				"suite %s: case %s has no expression",
				s.Topic, c.Name,
			)
		}
		_, exists := s.names[c.Name]
		_, repeated := batch[c.Name]
		if exists || repeated {
			return fmt.Errorf(
				"suite %s: duplicate case %s",
				s.Topic, c.Name,
			)
		}
		batch[c.Name] = struct{}{}
	}

	for _, c := range cases {
		s.names[c.Name] = struct{}{}
		s.Cases = append(s.Cases, c)
	}
	return nil
}

// MustAdd is like Add but panics on error. Koan content is
// static, so a bad declaration is a programming mistake.
func (s *Suite) MustAdd(cases ...Case) *Suite {
	if err := s.Add(cases...); err != nil {
		panic(err)
	}
	return s
}

// Case looks up a case by name.
func (s *Suite) Case(name string) (Case, bool) {
	for _, c := range s.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// Names returns the case names in declaration order.
func (s *Suite) Names() []string {
	out := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		out[i] = c.Name
	}
	return out
}

// Len returns the number of cases.
func (s *Suite) Len() int { return len(s.Cases) }
