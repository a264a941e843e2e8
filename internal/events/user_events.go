package events

import "time"

type ParentAdded struct {
	UserID  string    `json:"userId"`
	Email   string    `json:"email"`
	AddedBy string    `json:"addedBy"`
	At      time.Time `json:"at"`
}

func (ParentAdded) EventName() string { return "parent.added" }

type ChildAdded struct {
	ChildID   string    `json:"childId"`
	ParentIDs []string  `json:"parentIds"`
	AddedBy   string    `json:"addedBy"`
	At        time.Time `json:"at"`
}

func (ChildAdded) EventName() string { return "child.added" }
