package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// LineSink prints plain progress lines, for CI logs and non-interactive runs
type LineSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLineSink creates a sink writing to out
func NewLineSink(out io.Writer) *LineSink {
	return &LineSink{out: out}
}

// NewSink picks the spinner for interactive runs and plain lines otherwise
func NewSink(nonInteractive bool) usecase.ProgressSink {
	if nonInteractive {
		return NewLineSink(os.Stderr)
	}
	return NewSpinnerSink()
}

// OnProgress prints the start of each step
func (s *LineSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != usecase.StageDeploying {
		return
	}
	if event.Total > 0 {
		s.println(fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message))
		return
	}
	s.println(event.Message)
}

func (s *LineSink) Info(message string)  { s.println(message) }
func (s *LineSink) Error(message string) { s.println(message) }

func (s *LineSink) println(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, message)
}

var _ usecase.ProgressSink = (*LineSink)(nil)
