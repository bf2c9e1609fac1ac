package wi

// State is pushed to the gate's sink after every counter write, whether or
// not Visible changed.
type State struct {
	Revision  Revision  `json:"revision"`
	Count     int       `json:"count"`
	Visible   bool      `json:"visible"`
	Requested bool      `json:"requested"`
	Timestamp Timestamp `json:"timestamp"`
}

// InitialState is the state of a gate that has never been written.
func InitialState() State {
	return State{Revision: InitialRevision}
}

func (s State) Initialized() bool {
	return s.Revision != InitialRevision && s.Revision != ""
}
