package order

// Status is an order's lifecycle state. Statuses only ever move forward
// through the transition table below, or side-exit to CANCELLED while still
// PENDING. Admin override is the single sanctioned bypass and lives in the
// admin service, not here.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusMoving    Status = "MOVING"
	StatusCaring    Status = "CARING"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

// Action is a staff verb that drives an order forward.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionMove     Action = "move"
	ActionCare     Action = "care"
	ActionComplete Action = "complete"
)

var transitions = map[Status]map[Action]Status{
	StatusPending:  {ActionAccept: StatusAccepted},
	StatusAccepted: {ActionMove: StatusMoving},
	StatusMoving:   {ActionCare: StatusCaring},
	StatusCaring:   {ActionComplete: StatusDone},
}

// NextStatus returns the status reached by applying a to current. ok is
// false for every pair outside the transition table; callers must reject the
// action, never ignore it.
func NextStatus(current Status, a Action) (Status, bool) {
	next, ok := transitions[current][a]
	return next, ok
}

// CanCancel reports whether a customer may still cancel; only before staff
// acceptance.
func CanCancel(s Status) bool {
	return s == StatusPending
}

// Terminal reports whether the lifecycle has ended.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusMoving, StatusCaring, StatusDone, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionAccept, ActionMove, ActionCare, ActionComplete:
		return Action(s), true
	}
	return "", false
}
