package terminal

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

const KEY_ESCAPE = byte(0x1B)

// Keyboard reads raw stdin on a goroutine and buffers the key bytes
// for per-frame draining. Stop restores the terminal state.
type Keyboard struct {
	events       chan byte
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewKeyboard creates a keyboard host for stdin.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		events: make(chan byte, 64),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts the terminal in raw mode, sets stdin non-blocking, and
// begins buffering key bytes. Call Stop to restore stdin.
func (kb *Keyboard) Start() (err error) {
	kb.fd = int(os.Stdin.Fd())

	kb.oldTermState, err = term.MakeRaw(kb.fd)
	if err != nil {
		close(kb.done)
		return
	}

	err = syscall.SetNonblock(kb.fd, true)
	if err != nil {
		_ = term.Restore(kb.fd, kb.oldTermState)
		kb.oldTermState = nil
		close(kb.done)
		return
	}
	kb.nonblockSet = true

	go func() {
		defer close(kb.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-kb.stopCh:
				return
			default:
			}

			n, err := syscall.Read(kb.fd, buf)
			if n > 0 {
				select {
				case kb.events <- buf[0]:
				default:
					// Full buffer drops the byte.
				}
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(time.Millisecond)
			}
		}
	}()

	return
}

// Stop terminates the reader goroutine and restores the terminal.
func (kb *Keyboard) Stop() {
	kb.stopped.Do(func() {
		close(kb.stopCh)
	})
	<-kb.done
	if kb.nonblockSet {
		_ = syscall.SetNonblock(kb.fd, false)
		kb.nonblockSet = false
	}
	if kb.oldTermState != nil {
		_ = term.Restore(kb.fd, kb.oldTermState)
		kb.oldTermState = nil
	}
}

// Poll returns a buffered key byte without blocking.
func (kb *Keyboard) Poll() (key byte, ok bool) {
	select {
	case key = <-kb.events:
		ok = true
	default:
	}

	return
}

// keyButton maps host key bytes onto the 4x4 pad in COSMAC layout.
var keyButton = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Button maps a key byte to its pad key index.
func Button(key byte) (button int, ok bool) {
	button, ok = keyButton[key]
	return
}
