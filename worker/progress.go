package worker

import (
	"fmt"

	"github.com/gosuri/uiprogress"

	"text2phenotype.com/postag/pipeline"
)

type progressBars interface {
	newBar(name string) pipeline.Progress
	start()
	stop()
}

type noBars struct{}

func (noBars) newBar(string) pipeline.Progress { return noBar{} }
func (noBars) start()                          {}
func (noBars) stop()                           {}

type noBar struct{}

func (noBar) Start(int64) {}
func (noBar) Add(int)     {}
func (noBar) Done()       {}

// terminalBars renders one bar per file on the terminal.
type terminalBars struct{}

func (terminalBars) start() {
	uiprogress.Start()
}

func (terminalBars) stop() {
	uiprogress.Stop()
}

func (terminalBars) newBar(name string) pipeline.Progress {
	return &fileBar{name: name}
}

type fileBar struct {
	name string
	bar  *uiprogress.Bar
}

func (b *fileBar) Start(total int64) {
	b.bar = uiprogress.AddBar(int(total))
	b.bar.AppendCompleted()
	b.bar.PrependElapsed()
	b.bar.PrependFunc(func(bar *uiprogress.Bar) string {
		return fmt.Sprintf("%s %d/%d", b.name, bar.Current(), bar.Total)
	})
}

func (b *fileBar) Add(n int) {
	if b.bar == nil {
		return
	}
	b.bar.Set(b.bar.Current() + n)
}

func (b *fileBar) Done() {
	if b.bar == nil {
		return
	}
	b.bar.Set(b.bar.Total)
}
