package navigator

// Event is a decoded user intent. The terminal layer maps keys to events;
// the navigator never sees raw key codes.
type Event int

const (
	EventNone Event = iota
	EventQuit
	EventSelectNext
	EventSelectPrevious
	EventDeepen
	EventRise
	EventFirst
	EventLast
	EventToggleFilterMode
	EventNextValue
	EventPreviousValue
	EventChoose
)

var eventNames = map[Event]string{
	EventNone:             "none",
	EventQuit:             "quit",
	EventSelectNext:       "select-next",
	EventSelectPrevious:   "select-previous",
	EventDeepen:           "deepen",
	EventRise:             "rise",
	EventFirst:            "first",
	EventLast:             "last",
	EventToggleFilterMode: "toggle-filter-mode",
	EventNextValue:        "next-value",
	EventPreviousValue:    "previous-value",
	EventChoose:           "choose",
}

func (e Event) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return "unknown"
}

// ParseEvent maps an event name back to its Event. Unknown names return
// EventNone and false.
func ParseEvent(name string) (Event, bool) {
	for e, s := range eventNames {
		if s == name {
			return e, e != EventNone
		}
	}
	return EventNone, false
}
