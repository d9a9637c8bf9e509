package profiler

// Unit tells how to read the value passed to a Handler.
type Unit uint8

const (
	Milliseconds Unit = iota + 1
	Megabytes
	Comment // the segment is a "# " prefixed text, the value is zero
)

func (u Unit) String() string {
	switch u {
	case Milliseconds:
		return "ms"
	case Megabytes:
		return "MB"
	case Comment:
		return "Comment"
	default:
		return "Undefined"
	}
}
