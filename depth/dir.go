package depth

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// DirOptions configures a DirProvider.
type DirOptions struct {
	// Path is a directory of .depth or .png frames, played in name order.
	Path string
	// FPS is the playback rate.
	FPS int
	// Loop restarts playback after the last frame.
	Loop bool

	Descriptor    *Descriptor
	DepthMode     DepthMode
	OcclusionMode OcclusionMode
}

// DirProvider plays back recorded depth frames from a directory. Frames are
// decoded on a background goroutine and handed over through a single-slot
// mailbox, so TryAcquire never blocks and never returns a stale backlog.
type DirProvider struct {
	opts  DirOptions
	files []string
	pool  *BufferPool
	box   mailbox

	close chan chan bool
}

// NewDirProvider lists the frames in opts.Path and starts playback.
func NewDirProvider(opts DirOptions) (*DirProvider, error) {
	entries, err := os.ReadDir(opts.Path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsFrameFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(opts.Path, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no depth frames found in %s", opts.Path)
	}
	sort.Strings(files)
	if opts.FPS <= 0 {
		opts.FPS = 30
	}

	d := &DirProvider{
		opts:  opts,
		files: files,
		pool:  NewBufferPool(),
		close: make(chan chan bool),
	}
	go d.loop()
	return d, nil
}

func (d *DirProvider) loop() {
	clog := log.WithField("source", d.opts.Path)
	clog.Infof("Playing %d depth frames at %d FPS", len(d.files), d.opts.FPS)

	t := time.NewTicker(time.Second / time.Duration(d.opts.FPS))
	defer t.Stop()

	next := 0
	for {
		select {
		case c := <-d.close:
			d.box.drain()
			d.pool.Close()
			c <- true
			return
		case now := <-t.C:
			if next >= len(d.files) {
				if !d.opts.Loop {
					continue
				}
				next = 0
			}
			path := d.files[next]
			next += 1
			img, err := LoadFile(path, d.pool)
			if err != nil {
				clog.Warnf("Skipping unreadable frame %s: %v", path, err)
				continue
			}
			img.SetTimestamp(now)
			d.box.put(img)
		}
	}
}

func (d *DirProvider) Descriptor() *Descriptor { return d.opts.Descriptor }
func (d *DirProvider) DepthMode() DepthMode { return d.opts.DepthMode }
func (d *DirProvider) OcclusionMode() OcclusionMode { return d.opts.OcclusionMode }
func (d *DirProvider) Files() []string { return d.files[:] }

// Dropped counts frames replaced before anyone acquired them.
func (d *DirProvider) Dropped() uint64 { return d.box.dropped() }

func (d *DirProvider) TryAcquire() (Frame, bool) {
	img, ok := d.box.take()
	if !ok {
		return nil, false
	}
	return img, true
}

// Close stops playback and releases any pending frame.
func (d *DirProvider) Close() {
	c := make(chan bool)
	d.close <- c
	<-c
}
