package depth

import (
	log "github.com/sirupsen/logrus"
)

// maxOutstanding is the number of buffers handed out before the pool starts
// complaining about leaked frames.
const maxOutstanding = 64

// BufferPool recycles frame pixel buffers between providers and consumers.
// All bookkeeping happens on a single goroutine.
type BufferPool struct {
	get   chan getRequest
	put   chan []byte
	stats chan chan PoolStats
	close chan bool
}

type getRequest struct {
	size  int
	reply chan []byte
}

// PoolStats reports the pool occupancy.
type PoolStats struct {
	// Allocated is the number of buffers created and not yet dropped.
	Allocated int
	// Available is the number of idle buffers.
	Available int
}

func NewBufferPool() *BufferPool {
	p := &BufferPool{
		get:   make(chan getRequest),
		put:   make(chan []byte),
		stats: make(chan chan PoolStats),
		close: make(chan bool),
	}
	go p.loop()
	return p
}

func (p *BufferPool) loop() {
	closed := false
	allocated := 0
	var available [][]byte
	for {
		select {
		case <-p.close:
			closed = true
			allocated -= len(available)
			available = nil
		case b := <-p.put:
			if closed {
				allocated -= 1
			} else {
				available = append(available, b)
			}
		case r := <-p.get:
			var b []byte
			for i, a := range available {
				if cap(a) >= r.size {
					b = a[:r.size]
					available = append(available[:i], available[i+1:]...)
					break
				}
			}
			if b == nil {
				b = make([]byte, r.size)
				allocated += 1
				if allocated-len(available) > maxOutstanding {
					log.Errorf("Too many outstanding depth buffers (%d). Perhaps a Frame isn't being released?", allocated-len(available))
				}
			} else {
				for i := range b {
					b[i] = 0
				}
			}
			r.reply <- b
		case c := <-p.stats:
			c <- PoolStats{Allocated: allocated, Available: len(available)}
		}
	}
}

// Get returns a zeroed buffer of length n.
func (p *BufferPool) Get(n int) []byte {
	r := getRequest{size: n, reply: make(chan []byte)}
	p.get <- r
	return <-r.reply
}

// Put hands a buffer back. The caller must not touch it afterwards.
func (p *BufferPool) Put(b []byte) {
	p.put <- b
}

func (p *BufferPool) Stats() PoolStats {
	c := make(chan PoolStats)
	p.stats <- c
	return <-c
}

// Close drops all idle buffers. Buffers returned later are dropped as well.
func (p *BufferPool) Close() {
	p.close <- true
}
