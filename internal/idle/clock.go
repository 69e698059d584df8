package idle

import "time"

// Timer 可取消的定时任务
type Timer interface {
	Stop() bool
}

// Clock 时间源，测试中替换为可手动推进的实现
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock 基于 time.AfterFunc 的时间源
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
