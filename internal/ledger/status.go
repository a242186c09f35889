package ledger

// Named statuses for the closed marker mapping.
const (
	StatusIncomplete = "incomplete"
	StatusComplete   = "complete"
	StatusInProgress = "in-progress"
	StatusCancelled  = "cancelled"
	StatusScheduled  = "scheduled"
)

// StatusMap is the marker ↔ named-status mapping used by the status
// synchronizer. It is closed: unknown markers map to the empty string.
type StatusMap map[byte]string

func DefaultStatusMap() StatusMap {
	return StatusMap{
		MarkerIncomplete: StatusIncomplete,
		MarkerComplete:   StatusComplete,
		'X':              StatusComplete,
		MarkerInProgress: StatusInProgress,
		MarkerCancelled:  StatusCancelled,
		MarkerScheduled:  StatusScheduled,
	}
}

// markerPreference fixes which marker wins when several map to one status
// (x over X for "complete").
var markerPreference = []byte{
	MarkerIncomplete,
	MarkerComplete,
	'X',
	MarkerInProgress,
	MarkerCancelled,
	MarkerScheduled,
}

func (m StatusMap) Status(marker byte) string {
	return m[marker]
}

func (m StatusMap) Marker(status string) (byte, bool) {
	for _, mk := range markerPreference {
		if m[mk] == status {
			return mk, true
		}
	}
	for mk, s := range m {
		if s == status {
			return mk, true
		}
	}
	return 0, false
}
