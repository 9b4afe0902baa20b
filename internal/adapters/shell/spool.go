package shell

import "sync"

// spool is the hand-off between the drain goroutine and the poller. Lines are
// appended whole by a single writer and taken in batches by the reader.
type spool struct {
	mu    sync.Mutex
	lines []string
	eof   bool
	err   error

	ready chan struct{}
	done  chan struct{}
}

func newSpool() *spool {
	return &spool{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (s *spool) push(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()

	s.signal()
}

// finish marks the end of the stream. It is called at most once.
func (s *spool) finish(err error) {
	s.mu.Lock()
	s.eof = true
	s.err = err
	s.mu.Unlock()

	close(s.done)
	s.signal()
}

// take removes and returns every pending line without waiting. drained is
// true when the stream has ended and nothing is left.
func (s *spool) take() (lines []string, drained bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines = s.lines
	s.lines = nil

	return lines, s.eof && len(lines) == 0
}

func (s *spool) release() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

func (s *spool) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}
