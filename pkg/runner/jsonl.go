package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
)

// ReadEvents reads JSON-Lines events from r (see domain.DecodeEvent) and
// enqueues them into sink until r is exhausted or ctx is cancelled.
// Malformed lines are logged and skipped.
func ReadEvents(ctx context.Context, r io.Reader, sink ports.EventSink, logger *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := domain.DecodeEvent([]byte(line))
		if err != nil {
			logger.Warn("invalid event line", "line", line, "err", err)
			continue
		}
		if err := sink.Enqueue(e); err != nil {
			logger.Warn("event not queued", "event", e.String(), "err", err)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// SnapshotWriter writes a JSON line each time the active path changes.
// After the first write error it stops writing and reports it through Err.
type SnapshotWriter struct {
	enc  *json.Encoder
	last string
	seen bool
	err  error
}

// NewSnapshotWriter creates a writer on w.
func NewSnapshotWriter(w io.Writer) *SnapshotWriter {
	return &SnapshotWriter{enc: json.NewEncoder(w)}
}

// Observe is a tick observer (see WithTickObserver).
func (sw *SnapshotWriter) Observe(s *domain.Snapshot) {
	if s == nil || sw.err != nil {
		return
	}
	path := strings.Join(s.ActivePath(), domain.PathSeparator)
	if sw.seen && path == sw.last {
		return
	}
	sw.last, sw.seen = path, true
	sw.err = sw.enc.Encode(s)
}

// Err returns the first write error, if any.
func (sw *SnapshotWriter) Err() error { return sw.err }
