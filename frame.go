package glint

import (
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// rateLimiter is the "simple scheduled task with pending-trailing flag"
// the design notes call for (§9): the first call in a burst fires
// immediately (leading edge) and, if further calls arrive inside the
// window, exactly one more fires once the window elapses (trailing edge).
type rateLimiter struct {
	mu              sync.Mutex
	window          time.Duration
	fn              func()
	timer           *time.Timer
	pendingTrailing bool
}

func newRateLimiter(window time.Duration, fn func()) *rateLimiter {
	return &rateLimiter{window: window, fn: fn}
}

func (r *rateLimiter) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		r.fn()
		r.timer = time.AfterFunc(r.window, r.onElapsed)
		return
	}
	r.pendingTrailing = true
}

func (r *rateLimiter) onElapsed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pendingTrailing {
		r.pendingTrailing = false
		r.fn()
		r.timer = time.AfterFunc(r.window, r.onElapsed)
		return
	}
	r.timer = nil
}

// Cancel stops any pending trailing fire. It does not disable the limiter:
// a later Trigger starts a new burst and fires immediately.
func (r *rateLimiter) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pendingTrailing = false
}

const rateLimiterWindow = 32 * time.Millisecond

var (
	driverRegistryMu sync.Mutex
	driverRegistry   = map[io.Writer]*Frame{}
)

// Frame owns the root node and the attached output stream (§4.H). At most
// one Frame is mounted per stream at a time; mounting a second unmounts
// the first.
type Frame struct {
	tree       *Tree
	layout     *Layout
	reconciler *Reconciler
	root       NodeID

	w           io.Writer
	file        *os.File
	interactive bool
	columns     int
	profile     Profile

	mu          sync.Mutex
	lastOutput  string
	lastHeight  int
	staticLines []string

	limiter    *rateLimiter
	resizeDone chan struct{}
	mounted    bool
}

// NewFrame constructs a Frame attached to w, mirroring §4.H's
// construction contract: create root, attach the three commit hooks,
// subscribe to resize unless non-interactive, and register the stream
// in the process-wide driver table.
func NewFrame(w io.Writer) *Frame {
	f := &Frame{w: w, layout: NewLayout()}
	f.tree = NewTree(f.layout)
	f.reconciler = NewReconciler(f.tree)
	f.root = f.tree.CreateNode(KindRoot)
	f.profile = DetectProfile()

	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		f.file = file
		f.interactive = true
		if cols, _, err := term.GetSize(int(file.Fd())); err == nil && cols > 0 {
			f.columns = cols
		} else {
			f.columns = ColumnsFromEnv()
		}
	} else {
		f.columns = ColumnsFromEnv()
	}

	f.limiter = newRateLimiter(rateLimiterWindow, f.paintDynamic)
	f.tree.SetRootHooks(f.root, f.onComputeLayout, f.limiter.Trigger, f.paintImmediate)

	driverRegistryMu.Lock()
	if prev, ok := driverRegistry[w]; ok {
		driverRegistryMu.Unlock()
		prev.Unmount()
		driverRegistryMu.Lock()
	}
	driverRegistry[w] = f
	driverRegistryMu.Unlock()

	f.mounted = true
	if f.interactive {
		f.subscribeResize()
	}
	return f
}

// Root returns the frame's root node, the entry point the reconciler's
// host-config callbacks are driven against.
func (f *Frame) Root() NodeID { return f.root }

// Reconciler returns the host-config implementation bound to this frame's
// tree (§6).
func (f *Frame) Reconciler() *Reconciler { return f.reconciler }

func (f *Frame) onComputeLayout() {
	f.mu.Lock()
	cols := f.columns
	f.mu.Unlock()
	f.tree.ComputeLayout(f.root, cols)
}

// paintDynamic is on_render (§4.H): compose with skip_static=true; if the
// output is byte-identical to the last emission, do nothing; otherwise
// erase the previously painted region and write the new one.
func (f *Frame) paintDynamic() {
	f.mu.Lock()
	defer f.mu.Unlock()
	comp := NewCompositor(f.columns, f.profile)
	output, height := comp.Compose(f.tree, f.root, CompositeOptions{SkipStatic: true})
	if output == f.lastOutput {
		return
	}
	f.eraseRegionLocked(f.lastHeight)
	f.writeLocked(output)
	f.lastOutput = output
	f.lastHeight = height
}

// paintImmediate is on_immediate_render (§4.H): compose with
// skip_static=false, prepend whatever is newly accumulated in the static
// region above the dynamic region, and flush unconditionally, bypassing
// the rate limiter.
func (f *Frame) paintImmediate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	staticComp := NewCompositor(f.columns, f.profile)
	staticOut, _ := staticComp.Compose(f.tree, f.root, CompositeOptions{OnlyStatic: true})
	var newStatic []string
	if staticOut != "" {
		newStatic = strings.Split(staticOut, "\n")
	}
	var delta []string
	if len(newStatic) > len(f.staticLines) {
		delta = newStatic[len(f.staticLines):]
	}
	f.staticLines = newStatic

	dynComp := NewCompositor(f.columns, f.profile)
	output, height := dynComp.Compose(f.tree, f.root, CompositeOptions{SkipStatic: true})

	f.eraseRegionLocked(f.lastHeight)
	if len(delta) > 0 {
		f.writeLocked(strings.Join(delta, "\n") + "\n")
	}
	f.writeLocked(output)
	f.lastOutput = output
	f.lastHeight = height
}

// eraseRegionLocked implements the in-place update protocol (§4.H): cursor
// up by the prior region's line count, then erase-line and cursor-down
// per line, then cursor-up back to the top.
func (f *Frame) eraseRegionLocked(lines int) {
	if lines <= 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString("\x1b[" + strconv.Itoa(lines) + "A")
	for i := 0; i < lines; i++ {
		sb.WriteString("\x1b[2K")
		if i < lines-1 {
			sb.WriteString("\x1b[1B")
		}
	}
	if lines > 1 {
		sb.WriteString("\x1b[" + strconv.Itoa(lines-1) + "A")
	}
	io.WriteString(f.w, sb.String())
}

func (f *Frame) writeLocked(output string) {
	io.WriteString(f.w, output)
	io.WriteString(f.w, "\n")
}

func (f *Frame) subscribeResize() {
	f.resizeDone = make(chan struct{})
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	go func() {
		for {
			select {
			case <-ch:
				f.handleResize()
			case <-f.resizeDone:
				signal.Stop(ch)
				return
			}
		}
	}()
}

// handleResize re-reads the column count and, per the resolved open
// question on resize-during-a-burst (DESIGN.md), invalidates the last
// frame's diff cache so the next paint is a full repaint rather than a
// diff against now-stale geometry, then re-invokes layout and on_render.
func (f *Frame) handleResize() {
	if f.file == nil {
		return
	}
	cols, _, err := term.GetSize(int(f.file.Fd()))
	if err != nil || cols <= 0 {
		return
	}
	f.mu.Lock()
	f.columns = cols
	f.lastOutput = ""
	f.lastHeight = 0
	f.mu.Unlock()
	f.onComputeLayout()
	f.paintDynamic()
}

// Unmount calls on_render once more to reach steady state, unsubscribes
// from resize, recursively frees the layout tree, and clears the
// reconciler root (§4.H).
func (f *Frame) Unmount() {
	f.mu.Lock()
	if !f.mounted {
		f.mu.Unlock()
		return
	}
	f.mounted = false
	f.mu.Unlock()

	f.limiter.Cancel()
	f.paintDynamic()

	if f.resizeDone != nil {
		close(f.resizeDone)
	}

	driverRegistryMu.Lock()
	if driverRegistry[f.w] == f {
		delete(driverRegistry, f.w)
	}
	driverRegistryMu.Unlock()

	for _, child := range append([]NodeID(nil), f.tree.Children(f.root)...) {
		f.tree.RemoveChild(f.root, child)
	}
	if h, ok := f.tree.LayoutHandleOf(f.root); ok {
		f.layout.FreeHandle(h)
	}
}
