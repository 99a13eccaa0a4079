package depth

import (
	"sync"
)

// mailbox holds at most one pending frame. A newer frame replaces (and
// releases) an unconsumed older one; consumers never wait.
type mailbox struct {
	l     sync.Mutex
	frame *Image
	drops uint64
}

func (m *mailbox) put(f *Image) {
	m.l.Lock()
	defer m.l.Unlock()
	if m.frame != nil {
		m.frame.Release()
		m.drops += 1
	}
	m.frame = f
}

func (m *mailbox) take() (*Image, bool) {
	m.l.Lock()
	defer m.l.Unlock()
	f := m.frame
	m.frame = nil
	return f, f != nil
}

func (m *mailbox) dropped() uint64 {
	m.l.Lock()
	defer m.l.Unlock()
	return m.drops
}

func (m *mailbox) drain() {
	if f, ok := m.take(); ok {
		f.Release()
	}
}
