package core

// Logger is any service that can log leveled messages alongside arbitrary
// context values (errors, the acting user, key-value data).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
