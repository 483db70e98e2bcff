package ui

import "time"

// RealScheduler schedules with time.AfterFunc.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// ImmediateScheduler runs f synchronously, collapsing every delay. Server-rendered pages
// use it: there is no time between building the page and sending it.
type ImmediateScheduler struct{}

func (ImmediateScheduler) AfterFunc(_ time.Duration, f func()) func() bool {
	f()
	return func() bool { return false }
}

var (
	_ Scheduler = RealScheduler{}
	_ Scheduler = ImmediateScheduler{}
)
