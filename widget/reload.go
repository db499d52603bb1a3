package widget

import (
	"sync"
)

// reloadNotifier fans out change notifications to any number of subscribers.
// Each subscriber gets a buffered channel that receives a single empty struct
// whenever a change occurs.
type reloadNotifier struct {
	mutex   sync.Mutex
	closed  bool
	nextID  int
	clients map[int]chan struct{}
}

func newReloadNotifier() *reloadNotifier {
	return &reloadNotifier{
		clients: make(map[int]chan struct{}),
	}
}

// Subscribe registers a new listener. If the notifier has already been
// closed it returns a closed channel so callers can fail fast.
func (notifier *reloadNotifier) Subscribe() (int, <-chan struct{}) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()

	if notifier.closed {
		ch := make(chan struct{})
		close(ch)
		return -1, ch
	}

	id := notifier.nextID
	notifier.nextID++

	ch := make(chan struct{}, 1)
	notifier.clients[id] = ch

	return id, ch
}

// Unsubscribe removes a listener and closes its channel so the caller can
// tear down any goroutine blocked on it.
func (notifier *reloadNotifier) Unsubscribe(id int) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()

	if ch, ok := notifier.clients[id]; ok {
		close(ch)
		delete(notifier.clients, id)
	}
}

// Notify broadcasts a reload signal without blocking on slow readers. A
// listener with a pending notification is left untouched; it still reloads
// on its next poll.
func (notifier *reloadNotifier) Notify() {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()

	if notifier.closed {
		return
	}

	for _, ch := range notifier.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close tears down the notifier and every subscriber channel.
func (notifier *reloadNotifier) Close() {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()

	if notifier.closed {
		return
	}

	notifier.closed = true

	for id, ch := range notifier.clients {
		close(ch)
		delete(notifier.clients, id)
	}
}
