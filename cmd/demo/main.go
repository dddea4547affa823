// Command demo drives the full glint pipeline against a real terminal: a
// reconciler builds a small node tree once, then mutates it once per tick,
// letting the frame driver's rate limiter and in-place redraw protocol do
// the rest.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"glint"
)

type dashboard struct {
	r    *glint.Reconciler
	root glint.NodeID

	clockLeaf glint.NodeID
	tickLeaf  glint.NodeID
	barLeaves []glint.NodeID

	tick    int
	cpuLoad []int
}

func newDashboard(r *glint.Reconciler, root glint.NodeID) *dashboard {
	d := &dashboard{r: r, root: root, cpuLoad: []int{45, 67, 32, 89}}
	d.build()
	return d
}

func (d *dashboard) text(parent glint.NodeID, content string, style glint.Style) glint.NodeID {
	id, _ := d.r.CreateInstance("text", glint.Props{"style": style}, glint.HostContext{})
	leaf, _ := d.r.CreateTextInstance(content, glint.HostContext{InsideText: true})
	d.r.AppendInitialChild(id, leaf)
	d.r.AppendInitialChild(parent, id)
	return leaf
}

func (d *dashboard) build() {
	rowStyle := glint.DefaultStyle()
	header, _ := d.r.CreateInstance("box", glint.Props{"style": rowStyle}, glint.HostContext{})
	d.r.AppendInitialChild(d.root, header)
	d.text(header, "glint dashboard demo", boldStyle())
	d.clockLeaf = d.text(header, time.Now().Format("15:04:05"), glint.DefaultStyle())

	cpuStyle := glint.DefaultStyle()
	cpuStyle.Border.Top.Enabled = true
	cpuStyle.Border.Bottom.Enabled = true
	cpuStyle.Border.Left.Enabled = true
	cpuStyle.Border.Right.Enabled = true
	cpuStyle.BorderKind = glint.BorderRounded
	cpuStyle.Padding = glint.UniformEdges(1)
	cpuStyle.FlexDirection = glint.FlexColumn
	cpuBox, _ := d.r.CreateInstance("box", glint.Props{"style": cpuStyle}, glint.HostContext{})
	d.r.AppendInitialChild(d.root, cpuBox)

	accent := glint.DefaultStyle()
	accent.FG, accent.HasFG = glint.NamedColor(6), true
	accent.Attrs = glint.AttrBold
	d.text(cpuBox, "CPU Cores", accent)

	d.barLeaves = make([]glint.NodeID, len(d.cpuLoad))
	for i := range d.cpuLoad {
		d.barLeaves[i] = d.text(cpuBox, d.barLine(i), glint.DefaultStyle())
	}

	footer, _ := d.r.CreateInstance("box", glint.Props{"style": rowStyle}, glint.HostContext{})
	d.r.AppendInitialChild(d.root, footer)
	d.text(footer, "tick: ", glint.DefaultStyle())
	d.tickLeaf = d.text(footer, fmt.Sprintf("%5d", d.tick), glint.DefaultStyle())
}

func (d *dashboard) barLine(i int) string {
	load := d.cpuLoad[i]
	filled := load * 20 / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	return fmt.Sprintf("core %d: %3d%% %s", i, load, bar)
}

func boldStyle() glint.Style {
	s := glint.DefaultStyle()
	s.Attrs = glint.AttrBold
	return s
}

func (d *dashboard) step() {
	d.tick++
	for i := range d.cpuLoad {
		d.cpuLoad[i] = (d.cpuLoad[i] + (d.tick*(i+1))%7 - 3 + 100) % 100
	}
	d.r.CommitTextUpdate(d.clockLeaf, time.Now().Format("15:04:05"))
	d.r.CommitTextUpdate(d.tickLeaf, fmt.Sprintf("%5d", d.tick))
	for i, leaf := range d.barLeaves {
		d.r.CommitTextUpdate(leaf, d.barLine(i))
	}
	d.r.ResetAfterCommit(d.root)
}

func main() {
	frame := glint.NewFrame(os.Stdout)
	defer frame.Unmount()

	d := newDashboard(frame.Reconciler(), frame.Root())
	frame.Reconciler().ResetAfterCommit(frame.Root())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.step()
		case <-sigCh:
			return
		}
	}
}
