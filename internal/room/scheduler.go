package room

import (
	"context"
	"sync"

	"battlemap-engine/internal/geom"
	"battlemap-engine/pkg/logger"
)

// Request - один запрос на поиск комнаты
type Request struct {
	Start  geom.Point
	Walls  []Wall
	Bounds geom.Rect
	Opts   Options
}

// Result - ответ планировщика. Err == context.Canceled, если запрос
// был вытеснен более новым.
type Result struct {
	Boundary Boundary
	Err      error
}

// Scheduler выносит детекцию в отдельную горутину.
// Побеждает последний запрос: новый Submit отменяет предыдущий.
type Scheduler struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Submit запускает детекцию и возвращает канал с единственным результатом.
// Канал буферизован, читать его не обязательно.
func (s *Scheduler) Submit(ctx context.Context, req Request) <-chan Result {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.seq++
	id := s.seq
	s.mu.Unlock()

	// Стены копируем: вызывающий может менять свой срез сразу после Submit
	walls := make([]Wall, len(req.Walls))
	copy(walls, req.Walls)

	out := make(chan Result, 1)
	go func() {
		defer s.finish(id, cancel)

		b, err := DetectContext(runCtx, req.Start, walls, req.Bounds, req.Opts)
		if err == nil && runCtx.Err() != nil {
			// Успели досчитать, но запрос уже вытеснен
			err = runCtx.Err()
			b = Boundary{}
		}
		if err != nil && runCtx.Err() != nil {
			logger.Component("room_scheduler").WithField("request", id).Debug("Request superseded.")
		}
		out <- Result{Boundary: b, Err: err}
		close(out)
	}()
	return out
}

// Cancel отменяет текущий запрос, если он есть
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) finish(id uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	if s.seq == id {
		s.cancel = nil
	}
	s.mu.Unlock()
}
