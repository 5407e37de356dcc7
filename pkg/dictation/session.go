package dictation

import (
	"sync"
	"sync/atomic"
	"time"
)

// Session is one press/release cycle. Frames are appended by the audio
// callback while recording and flattened exactly once by Seal.
type Session struct {
	ID        string
	Focus     Window
	StartedAt time.Time

	recording atomic.Bool

	mu     sync.Mutex
	frames [][]float32
	count  int
	sealed bool
}

func newSession(id string, focus Window) *Session {
	s := &Session{ID: id, Focus: focus, StartedAt: time.Now()}
	s.recording.Store(true)
	return s
}

// Append adds a frame if the session is still recording. The frame is owned
// by the session afterwards.
func (s *Session) Append(frame []float32) bool {
	if !s.recording.Load() || len(frame) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return false
	}
	s.frames = append(s.frames, frame)
	s.count += len(frame)
	return true
}

// Recording reports whether frames are still being accepted.
func (s *Session) Recording() bool {
	return s.recording.Load()
}

// Samples returns the number of samples captured so far.
func (s *Session) Samples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Session) stopRecording() {
	s.recording.Store(false)
}

// Seal stops recording and flattens the captured frames into one buffer.
// Only the first call returns audio; later calls return nil.
func (s *Session) Seal() []float32 {
	s.recording.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return nil
	}
	s.sealed = true
	if s.count == 0 {
		s.frames = nil
		return nil
	}

	out := make([]float32, 0, s.count)
	for _, f := range s.frames {
		out = append(out, f...)
	}
	s.frames = nil
	return out
}

func audioDuration(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
