package models

import "strings"

// SubscriberSet holds newsletter addresses keyed case-insensitively.
type SubscriberSet struct {
	emails map[string]struct{}
}

func NewSubscriberSet(emails ...string) *SubscriberSet {
	s := &SubscriberSet{emails: make(map[string]struct{}, len(emails))}
	for _, email := range emails {
		s.Add(email)
	}
	return s
}

// NormalizeEmail is the identity used for duplicate detection.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *SubscriberSet) Add(email string) bool {
	key := NormalizeEmail(email)
	if key == "" {
		return false
	}
	if _, ok := s.emails[key]; ok {
		return false
	}
	s.emails[key] = struct{}{}
	return true
}

func (s *SubscriberSet) Contains(email string) bool {
	_, ok := s.emails[NormalizeEmail(email)]
	return ok
}

func (s *SubscriberSet) Len() int {
	return len(s.emails)
}

// Clone returns an independent copy so cached sets are never mutated by callers.
func (s *SubscriberSet) Clone() *SubscriberSet {
	c := &SubscriberSet{emails: make(map[string]struct{}, len(s.emails))}
	for k := range s.emails {
		c.emails[k] = struct{}{}
	}
	return c
}
