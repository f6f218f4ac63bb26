package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// MentorshipRequestKey returns the document key for a mentorship request
func (r *CacheKeyStruct) MentorshipRequestKey(requestID string) string {
	return fmt.Sprintf("mentorship:request:%s", requestID)
}

// MentorshipStatusIndexKey returns the sorted-set index of requests in a status
func (r *CacheKeyStruct) MentorshipStatusIndexKey(status string) string {
	return fmt.Sprintf("mentorship:status:%s", status)
}

// MentorshipMentorIndexKey returns the sorted-set index of requests addressed to a mentor
func (r *CacheKeyStruct) MentorshipMentorIndexKey(mentorID string) string {
	return fmt.Sprintf("mentorship:mentor:%s", mentorID)
}

// MentorshipStudentIndexKey returns the sorted-set index of requests made by a student
func (r *CacheKeyStruct) MentorshipStudentIndexKey(studentID string) string {
	return fmt.Sprintf("mentorship:student:%s", studentID)
}

// OAuthStateKey returns the key holding a pending LinkedIn OAuth state
func (r *CacheKeyStruct) OAuthStateKey(state string) string {
	return fmt.Sprintf("oauth:linkedin:state:%s", state)
}

var CacheKey = NewCacheKeyStruct()

// RateLimitKey returns the counter key for one client in one rate-limit window
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}
