package timeutil

import "time"

// Sleeper abstracts time.Sleep so retry delays can be observed in tests
// instead of waited for.
type Sleeper interface {
	Sleep(d time.Duration)
}

type RealSleeper struct{}

func NewRealSleeper() RealSleeper {
	return RealSleeper{}
}

func (s *RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}
