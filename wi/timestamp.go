package wi

import "time"

type Timestamp string

const RFC3339Milli = "2006-01-02T15:04:05.999Z07:00"

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(RFC3339Milli))
}

func (ts Timestamp) String() string {
	return string(ts)
}

type Clock interface {
	Now() time.Time
}

type ClockFunction func() time.Time

func (f ClockFunction) Now() time.Time {
	return f()
}

type defaultClock struct{}

func (defaultClock) Now() time.Time {
	return time.Now()
}
