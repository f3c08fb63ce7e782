package ulog

// LogLevel is the severity of a logged message, with kernel log level
// numbering: 0 is most severe.
type LogLevel uint8

const (
	LevelEmergency LogLevel = iota
	LevelAlert
	LevelCritical
	LevelError
	LevelWarning
	LevelNotice
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelEmergency:
		return "EMERGENCY"
	case LevelAlert:
		return "ALERT"
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelNotice:
		return "NOTICE"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// levelFromByte normalizes the level byte of a logged-string frame. Writers
// store the ASCII digit of the level.
func levelFromByte(b byte) LogLevel {
	if b >= '0' && b <= '9' {
		b -= '0'
	}
	return LogLevel(b)
}
