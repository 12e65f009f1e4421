package model

import "time"

// TaskState is the four-way classification of a schedule bar.
type TaskState string

const (
	StateOverdue    TaskState = "Overdue"
	StateNotStarted TaskState = "NotStarted"
	StateInProgress TaskState = "InProgress"
	StateDone       TaskState = "Done"
)

// AllTaskStates lists the classifications in legend order.
var AllTaskStates = []TaskState{StateOverdue, StateNotStarted, StateInProgress, StateDone}

// BarStyle is the color data a Gantt renderer applies to a bar.
type BarStyle struct {
	BackgroundColor         string `json:"backgroundColor"`
	BackgroundSelectedColor string `json:"backgroundSelectedColor,omitempty"`
	ProgressColor           string `json:"progressColor,omitempty"`
	ProgressSelectedColor   string `json:"progressSelectedColor,omitempty"`
}

type TaskAssignee struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ScheduleTask is the render-only projection of an issue onto a timeline.
// It is rebuilt from the issue list on every request.
type ScheduleTask struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Progress     int           `json:"progress"`
	State        TaskState     `json:"state,omitempty"`
	Type         string        `json:"type"`
	Project      string        `json:"project"`
	Styles       BarStyle      `json:"styles"`
	Assignee     *TaskAssignee `json:"assignee,omitempty"`
	Dependencies []string      `json:"dependencies"`
	Dependency   string        `json:"dependency,omitempty"`
	Placeholder  bool          `json:"placeholder,omitempty"`
}

// LegendEntry describes one toggle of the schedule legend.
type LegendEntry struct {
	State TaskState `json:"state"`
	Label string    `json:"label"`
	Color string    `json:"color"`
}
