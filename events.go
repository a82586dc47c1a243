package main

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// -----------------------------
// Event repository
// -----------------------------
//
// Pure state store for event rows. Orchestration (owner permission,
// version snapshots, authorization) lives in service.go.

// EventInput holds the caller-settable fields of an event. Bound
// directly from JSON by the create handlers.
type EventInput struct {
	Title             string    `json:"title" binding:"required"`
	Description       string    `json:"description"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	EndTime           time.Time `json:"end_time" binding:"required"`
	Location          string    `json:"location"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurrencePattern string    `json:"recurrence_pattern"`
}

// EventPatch carries a partial update; nil fields are left unchanged.
type EventPatch struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	Location          *string    `json:"location"`
	IsRecurring       *bool      `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern"`
}

func CreateEventRow(db *gorm.DB, ownerID uint, in EventInput) (*Event, error) {
	event := Event{
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		Location:          in.Location,
		IsRecurring:       in.IsRecurring,
		RecurrencePattern: in.RecurrencePattern,
		OwnerID:           ownerID,
	}
	if err := db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByID loads the event with its permission rows.
func GetEventByID(db *gorm.DB, eventID uint) (*Event, error) {
	var event Event
	if err := db.Preload("Permissions").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// getEventRow loads the bare row, no associations. Mutation paths use
// this so Save never touches permission rows.
func getEventRow(db *gorm.DB, eventID uint) (*Event, error) {
	var event Event
	if err := db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListEventsForUser returns every event the user holds any grant on,
// owned or shared.
func ListEventsForUser(db *gorm.DB, userID uint) ([]Event, error) {
	var events []Event
	err := db.Preload("Permissions").
		Joins("JOIN permissions ON permissions.event_id = events.id").
		Where("permissions.user_id = ?", userID).
		Order("events.start_time asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEventRow applies the non-nil fields of the patch.
func UpdateEventRow(db *gorm.DB, eventID uint, patch EventPatch) (*Event, error) {
	event, err := getEventRow(db, eventID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.StartTime != nil {
		event.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		event.EndTime = *patch.EndTime
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.IsRecurring != nil {
		event.IsRecurring = *patch.IsRecurring
	}
	if patch.RecurrencePattern != nil {
		event.RecurrencePattern = *patch.RecurrencePattern
	}

	if err := db.Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// ApplySnapshot overwrites every domain field from the snapshot.
// Rollback always sets all fields, never a partial merge; id and
// owner_id keep their current values.
func ApplySnapshot(db *gorm.DB, eventID uint, version *EventVersion) (*Event, error) {
	event, err := getEventRow(db, eventID)
	if err != nil {
		return nil, err
	}

	event.Title = version.Title
	event.Description = version.Description
	event.StartTime = version.StartTime
	event.EndTime = version.EndTime
	event.Location = version.Location
	event.IsRecurring = version.IsRecurring
	event.RecurrencePattern = version.RecurrencePattern

	if err := db.Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEventRow removes only the event row; the caller cascades
// versions and permissions first.
func DeleteEventRow(db *gorm.DB, eventID uint) error {
	return db.Delete(&Event{}, eventID).Error
}
