package types

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"golang.org/x/sync/errgroup"
)

// runParallel runs the experiments of one run with at most ParallelExperiments at the same time
// The status of every running experiment is refreshed on its own terminal line
func (c *Comparison) runParallel(ctx context.Context, run, longestNameLen int, datasets map[string][]DataSet) error {
	outputs := make([]*ParallelOutput, len(c.Experiments))
	for i := range outputs {
		outputs[i] = NewParallelOutput()
	}

	printer := NewTerminalPrinter(ctx, outputs, c.cConfig.Output, c.cConfig.PrintFrequency)
	printer.Start()
	defer printer.Stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.cConfig.ParallelExperiments)
	for i := range c.Experiments {
		i := i
		g.Go(func() error {
			output := outputs[i]
			output.SetRunning(true)
			err := c.runExperiment(gCtx, run, i, longestNameLen, func(s string) { output.TrySet(s) }, datasets)
			if err != nil {
				output.Set(fmt.Sprintf("Exp:%*s, failed: %s", longestNameLen, c.Experiments[i].Name, err))
			}
			return err
		})
	}
	return g.Wait()
}

// TERMINAL PRINTER

type TerminalPrinter struct {
	parallelOutputs []*ParallelOutput
	ctx             context.Context
	printerCtx      context.Context
	printerCancel   context.CancelFunc
	frequency       int
	done            chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(ctx context.Context, parallelOutputs []*ParallelOutput, out io.Writer, frequency int) *TerminalPrinter {
	printerCtx, cancel := context.WithCancel(ctx)
	size := len(parallelOutputs)
	writers := make([]io.Writer, size)
	writer := uilive.New()
	writer.Out = out
	for i := 0; i < size-1; i++ {
		writers[i] = writer.Newline()
	}

	return &TerminalPrinter{
		parallelOutputs: parallelOutputs,
		ctx:             ctx,
		printerCtx:      printerCtx,
		printerCancel:   cancel,
		frequency:       frequency,
		done:            make(chan struct{}),

		writer:  writer,
		writers: writers,
	}
}

func (p *TerminalPrinter) Start() {
	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.printerCtx.Done():
				p.print()
				return
			case <-time.After(time.Duration(p.frequency) * time.Second):
				p.print()
			}
		}
	}()
}

// Stop prints the final status and waits for the printer to exit
func (p *TerminalPrinter) Stop() {
	p.printerCancel()
	<-p.done
}

func (p *TerminalPrinter) print() {
	for i, output := range p.parallelOutputs {
		if !output.IsRunning() {
			continue
		}
		s := output.Get()
		if i == 0 {
			fmt.Fprint(p.writer, s+"\n")
		} else {
			fmt.Fprint(p.writers[i-1], s+"\n")
		}
	}
	p.writer.Flush()
}

// PARALLEL OUTPUT

// used to update and print experiment outputs
type ParallelOutput struct {
	mu        sync.Mutex
	printable string
	running   bool
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{
		mu:        sync.Mutex{},
		printable: "Pending",
	}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking)
func (p *ParallelOutput) TrySet(s string) bool {
	success := p.mu.TryLock()
	if success {
		defer p.mu.Unlock()
		p.printable = s
		return true
	}
	return false
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}

func (p *ParallelOutput) SetRunning(running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = running
}

func (p *ParallelOutput) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
