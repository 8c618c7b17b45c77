// Package domain defines the types and interfaces for the schedule service
package domain

// WeekdayShort are the Monday-first labels used by the /schedule dialog
// and the confirmation messages
var WeekdayShort = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// PatternDoc is the persisted shape: handle -> sorted weekday indices
// Handles absent from the document follow the default Mon-Fri pattern.
type PatternDoc map[string][]int

// DocName is the document store key for work patterns
const DocName = "schedule"
