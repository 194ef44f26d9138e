package service

import (
	"sync"

	"golang-idea-radar/internal/executor/dto"
)

// runRecorder serializes summary updates coming from concurrent workers.
type runRecorder struct {
	mu      sync.Mutex
	summary *dto.RunSummary
}

func newRunRecorder(summary *dto.RunSummary) *runRecorder {
	return &runRecorder{summary: summary}
}

func (r *runRecorder) update(fn func(s *dto.RunSummary)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.summary)
}

func (r *runRecorder) warn(msg string) {
	r.update(func(s *dto.RunSummary) { s.Warnings = append(s.Warnings, msg) })
}

func (r *runRecorder) fail(msg string) {
	r.update(func(s *dto.RunSummary) { s.Errors = append(s.Errors, msg) })
}

func (r *runRecorder) stage(fn func(c *dto.StageCounters)) {
	r.update(func(s *dto.RunSummary) { fn(&s.Stages) })
}

// item appends the per-item result and bumps the run counters it implies.
func (r *runRecorder) item(result dto.ItemResult) {
	r.update(func(s *dto.RunSummary) {
		s.Items = append(s.Items, result)
		switch result.Status {
		case dto.ItemSkipped:
			s.ItemsSkipped++
		case dto.ItemFailed:
			s.ItemsFailed++
			s.Errors = append(s.Errors, result.Error)
		default:
			if result.Error != "" {
				s.Errors = append(s.Errors, result.Error)
			}
		}
	})
}
