package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	recorderQueueSize  = 64
	recorderBatchSize  = 16
	recorderFlushEvery = 2 * time.Second
)

// ScoreRecorder persists finished runs in the background so the game loop never waits on disk
type ScoreRecorder struct {
	db      *DB
	entries chan HighScore
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	log     zerolog.Logger
}

// NewScoreRecorder creates and starts the background writer
func NewScoreRecorder(db *DB, log zerolog.Logger) *ScoreRecorder {
	r := &ScoreRecorder{
		db:      db,
		entries: make(chan HighScore, recorderQueueSize),
		stop:    make(chan struct{}),
		log:     log.With().Str("component", "recorder").Logger(),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Submit enqueues a run for async persistence (non-blocking)
func (r *ScoreRecorder) Submit(entry HighScore) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	select {
	case r.entries <- entry:
	default:
		r.log.Warn().Str("name", entry.Name).Int("score", entry.Score).Msg("queue full, score dropped")
	}
}

// Stop flushes pending runs and shuts the writer down
func (r *ScoreRecorder) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
	r.wg.Wait()
}

func (r *ScoreRecorder) writer() {
	defer r.wg.Done()

	batch := make([]HighScore, 0, recorderBatchSize)
	ticker := time.NewTicker(recorderFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case e := <-r.entries:
			batch = append(batch, e)
			if len(batch) >= recorderBatchSize {
				batch = r.flush(batch)
			}
		case <-ticker.C:
			batch = r.flush(batch)
		case <-r.stop:
			for {
				select {
				case e := <-r.entries:
					batch = append(batch, e)
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes the batch and returns it emptied
func (r *ScoreRecorder) flush(batch []HighScore) []HighScore {
	if r.db == nil || len(batch) == 0 {
		return batch[:0]
	}
	if err := r.db.InsertScores(batch); err != nil {
		r.log.Error().Err(err).Int("count", len(batch)).Msg("writing high scores")
	} else {
		r.log.Debug().Int("count", len(batch)).Msg("high scores written")
	}
	return batch[:0]
}
