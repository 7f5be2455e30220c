package client

import (
	"sync"
	"time"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

const (
	joinNoticeTTL   = 4 * time.Second
	noticeTTL       = 3 * time.Second
	activityNavWait = 1500 * time.Millisecond
)

// Notice is a transient message shown on a page.
type Notice struct {
	Kind NoticeKind
	Text string
}

func (n Notice) Empty() bool { return n.Text == "" }

func success(text string) Notice { return Notice{Kind: NoticeSuccess, Text: text} }
func info(text string) Notice    { return Notice{Kind: NoticeInfo, Text: text} }
func failure(text string) Notice { return Notice{Kind: NoticeError, Text: text} }

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs delayed callbacks, as time.AfterFunc does.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler uses wall-clock timers.
var RealScheduler Scheduler = realScheduler{}

// noticeBoard holds one page's notice. A clear scheduled for an older notice
// does not wipe a newer one.
type noticeBoard struct {
	mu     *sync.Mutex
	sched  Scheduler
	notice Notice
	gen    int
}

// show sets n. Callers hold mu.
func (b *noticeBoard) show(n Notice, ttl time.Duration) {
	b.gen++
	b.notice = n
	if ttl <= 0 {
		return
	}
	gen := b.gen
	b.sched.AfterFunc(ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen == gen {
			b.notice = Notice{}
		}
	})
}

// clear drops the current notice. Callers hold mu.
func (b *noticeBoard) clear() {
	b.gen++
	b.notice = Notice{}
}
