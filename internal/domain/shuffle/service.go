package shuffle

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
)

// Service plans and applies album shuffles against a play queue.
// Runs never overlap.
type Service struct {
	mu       sync.Mutex
	queue    queue.Service
	shuffler *Shuffler
}

// NewService creates a new shuffle service. A nil shuffler uses the global random source.
func NewService(q queue.Service, shuffler *Shuffler) *Service {
	if shuffler == nil {
		shuffler = NewShuffler(nil)
	}
	return &Service{
		queue:    q,
		shuffler: shuffler,
	}
}

// Run shuffles the albums currently in the queue.
func (s *Service) Run(opts Options) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := Result{
		RunID:  uuid.NewString(),
		DryRun: opts.DryRun,
	}
	logger := log.With().Str("run_id", result.RunID).Logger()

	q, err := s.queue.Fetch()
	if err != nil {
		return result, errors.Wrap(err, "failed to read queue")
	}
	result.Tracks = len(q)

	albums := queue.AlbumIDs(queue.Segment(q))
	result.Plan = s.shuffler.Shuffle(albums)

	logger.Info().
		Int("tracks", result.Tracks).
		Int("albums", len(albums)).
		Strs("plan", result.Plan).
		Bool("dry_run", opts.DryRun).
		Msg("Shuffling albums")

	if opts.DryRun {
		return result, nil
	}

	moves, err := Execute(result.Plan, s.queue, s.queue)
	result.Moves = moves
	if err != nil {
		return result, err
	}

	logger.Info().Int("moves", moves).Msg("Albums shuffled")
	return result, nil
}
