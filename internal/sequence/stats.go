package sequence

// Stats aggregates counts over the whole sequence tree.
type Stats struct {
	TotalItems     int `json:"totalItems"`
	StartItems     int `json:"startItems"`
	TargetItems    int `json:"targetItems"`
	EndItems       int `json:"endItems"`
	Conditions     int `json:"conditions"`
	Triggers       int `json:"triggers"`
	GlobalTriggers int `json:"globalTriggers"`
	DisabledItems  int `json:"disabledItems"`
}

// ComputeStats traverses every area. Triggers include global triggers.
func ComputeStats(s *Sequence) Stats {
	var st Stats
	if s == nil {
		return st
	}
	for _, area := range Areas {
		n := 0
		Walk(s.Items(area), func(it *Item) bool {
			n++
			st.Conditions += len(it.Conditions)
			st.Triggers += len(it.Triggers)
			if it.Status == StatusDisabled {
				st.DisabledItems++
			}
			return true
		})
		switch area {
		case AreaStart:
			st.StartItems = n
		case AreaTarget:
			st.TargetItems = n
		case AreaEnd:
			st.EndItems = n
		}
		st.TotalItems += n
	}
	st.GlobalTriggers = len(s.GlobalTriggers)
	st.Triggers += st.GlobalTriggers
	return st
}
