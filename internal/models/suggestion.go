package models

import (
	"fmt"
	"time"
)

// SuggestionRequest carries a snapshot of the task form
type SuggestionRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Tags            []string   `json:"tags"`
	Status          Status     `json:"status,omitempty"`
	CurrentDueDate  *time.Time `json:"currentDueDate"`
	TzOffsetMinutes int        `json:"tzOffsetMinutes"`
}

// SuggestionExtras holds optional hints the backend may attach
type SuggestionExtras struct {
	Labels              []string   `json:"labels,omitempty"`
	TimeEstimateMinutes int        `json:"timeEstimateMinutes,omitempty"`
	ReminderAt          *time.Time `json:"reminderAt,omitempty"`
	StartTimeSuggestion *time.Time `json:"startTimeSuggestion,omitempty"`
	Recurrence          string     `json:"recurrence,omitempty"`
	ChecklistTemplate   []string   `json:"checklistTemplate,omitempty"`
}

// Suggestion is the metadata preview for a task draft
type Suggestion struct {
	Priority         Priority          `json:"priority"`
	SuggestedDueDate *time.Time        `json:"suggestedDueDate"`
	Reasons          []string          `json:"reasons"`
	Extras           *SuggestionExtras `json:"extras,omitempty"`
}

func (s Suggestion) Validate() error {
	if !s.Priority.Valid() {
		return fmt.Errorf("suggestion: invalid priority %q", s.Priority)
	}
	return nil
}
