package luabridge

// Severity classifies a reported failure. Callers decide whether to treat
// any given severity as fatal.
type Severity uint8

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

var severityNames = [...]string{
	SeverityDebug: "debug",
	SeverityInfo:  "info",
	SeverityWarn:  "warn",
	SeverityError: "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// Reporter is the side-channel invoked for every recovered failure: type
// mismatches, unloaded-reference use, invalid path steps, call failures.
// The bridge never uses it for flow control; it reports, returns a safe
// default, and keeps the stack balanced.
type Reporter func(sev Severity, msg string)
