package value

// SystemMessage is an internal sentinel; its only kind is Defer, used by
// operator executors to ask the expression evaluator to retry the same
// sign at the next-lower precedence where it is also registered
// (spec.md §3, §4.3, §4.4 step 5).
type SystemMessage struct {
	Defer bool
}

// Defer is the shared defer sentinel.
var Defer = &SystemMessage{Defer: true}

func (s *SystemMessage) Kind() Kind { return KindSystemMessage }

func (s *SystemMessage) DeepCopy() Value { return s }

func (s *SystemMessage) Display() string { return "<system:defer>" }

// IsDefer reports whether v is the defer sentinel.
func IsDefer(v Value) bool {
	sm, ok := v.(*SystemMessage)
	return ok && sm.Defer
}
