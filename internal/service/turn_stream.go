package service

import (
	"context"
	"sync"

	"pws-mentor-be/internal/dto"
)

// TurnStream is the caller-facing handle for one processed turn. The caller
// pulls text chunks from Chunks until the channel closes, then reads the
// final structured record. Cancel stops forwarding; already-produced text is
// persisted with a truncation flag.
type TurnStream struct {
	chunks chan string
	record chan *dto.TurnRecord

	cancelOnce sync.Once
	cancelFn   context.CancelFunc
	cancelled  chan struct{}
}

func newTurnStream(cancel context.CancelFunc) *TurnStream {
	return &TurnStream{
		chunks:    make(chan string),
		record:    make(chan *dto.TurnRecord, 1),
		cancelFn:  cancel,
		cancelled: make(chan struct{}),
	}
}

// Chunks returns the ordered stream of generated text. Closed on commit,
// cancellation, or terminal failure.
func (t *TurnStream) Chunks() <-chan string {
	return t.chunks
}

// Cancel aborts the turn. Safe to call more than once and after completion.
func (t *TurnStream) Cancel() {
	t.cancelOnce.Do(func() {
		close(t.cancelled)
		t.cancelFn()
	})
}

// Record blocks until the turn's final record is available. After Chunks is
// exhausted the record is ready immediately.
func (t *TurnStream) Record(ctx context.Context) (*dto.TurnRecord, error) {
	select {
	case rec := <-t.record:
		return rec, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// emit forwards one chunk unless the stream was cancelled. Reports whether
// forwarding should continue.
func (t *TurnStream) emit(text string) bool {
	select {
	case t.chunks <- text:
		return true
	case <-t.cancelled:
		return false
	}
}

func (t *TurnStream) finish(rec *dto.TurnRecord) {
	t.record <- rec
	close(t.chunks)
}

func (t *TurnStream) isCancelled() bool {
	select {
	case <-t.cancelled:
		return true
	default:
		return false
	}
}
