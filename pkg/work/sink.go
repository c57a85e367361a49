package work

// ProgressFunc receives the overall percentage (0-100) and a status message.
type ProgressFunc func(percent float64, message string)

// ConsoleFunc receives human readable lines, including streamed output of
// external commands.
type ConsoleFunc func(line string)

// Report calls fn, discarding any panic raised inside it. A nil fn is a no-op.
func (fn ProgressFunc) Report(percent float64, message string) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(percent, message)
}

// Print calls fn, discarding any panic raised inside it. A nil fn is a no-op.
func (fn ConsoleFunc) Print(line string) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(line)
}
