package playback

import (
	"reflect"
	"sync"

	"github.com/tessro/lilt/internal/core"
)

// listenerSet is a concurrency-safe list of playback listeners.
type listenerSet struct {
	mu        sync.Mutex
	listeners []core.PlaybackListener
}

func (s *listenerSet) add(l core.PlaybackListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// remove drops l. Listeners of non-comparable types (plain funcs) can't be
// matched and stay registered until Release.
func (s *listenerSet) remove(l core.PlaybackListener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.listeners {
		if reflect.TypeOf(existing).Comparable() && existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) clear() {
	s.mu.Lock()
	s.listeners = nil
	s.mu.Unlock()
}

func (s *listenerSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// notify calls every listener without holding the lock.
func (s *listenerSet) notify(playing bool) {
	s.mu.Lock()
	snapshot := make([]core.PlaybackListener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, l := range snapshot {
		l.OnPlayingChanged(playing)
	}
}
