package images

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReferenceSource reports which stored image paths are still referenced
// by live records.
type ReferenceSource interface {
	ReferencedImagePaths() ([]string, error)
}

// Sweeper periodically deletes stored files that no record references.
// Image removal elsewhere in the system is fire-and-forget, so orphaned
// files are an expected failure mode; the sweeper reconciles them.
type Sweeper struct {
	store    *Store
	refs     ReferenceSource
	schedule cron.Schedule
	done     chan bool
}

// NewSweeper creates a sweeper that runs on the given cron schedule
// (standard five-field syntax or descriptors like "@hourly").
func NewSweeper(store *Store, refs ReferenceSource, cronExpr string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		store:    store,
		refs:     refs,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweep loop. It blocks until Stop is called.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting image sweeper")
	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping image sweeper")
			return
		case <-timer.C:
			removed, err := s.Sweep()
			if err != nil {
				log.Error().Err(err).Msg("Image sweep failed")
				continue
			}
			if removed > 0 {
				log.Info().Int("removed", removed).Msg("Image sweep reclaimed orphaned files")
			}
		}
	}
}

// Stop halts the sweep loop.
func (s *Sweeper) Stop() {
	s.done <- true
}

// Sweep removes every stored file that no record references and returns
// how many were removed.
func (s *Sweeper) Sweep() (int, error) {
	stored, err := s.store.List()
	if err != nil {
		return 0, err
	}
	referenced, err := s.refs.ReferencedImagePaths()
	if err != nil {
		return 0, err
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[p] = struct{}{}
	}

	removed := 0
	for _, p := range stored {
		if _, ok := keep[p]; ok {
			continue
		}
		s.store.Remove(p)
		removed++
	}
	return removed, nil
}
