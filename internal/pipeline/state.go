package pipeline

// State is the processing stage of a single attachment
type State int

const (
	StateFetched State = iota
	StateDecoded
	StateDecrypted
	StatePassThrough
	StateWritten
)

func (s State) String() string {
	switch s {
	case StateFetched:
		return "fetched"
	case StateDecoded:
		return "decoded"
	case StateDecrypted:
		return "decrypted"
	case StatePassThrough:
		return "pass_through"
	case StateWritten:
		return "written"
	}
	return "unknown"
}
