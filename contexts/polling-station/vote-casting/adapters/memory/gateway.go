package memory

import (
	"context"
	"sync"
	"time"

	"pollstation/contexts/polling-station/vote-casting/domain/entities"

	"github.com/google/uuid"
)

// Gateway is an in-memory CastGateway used by unit tests. It records every
// submitted request and also provides Clock and IDGenerator implementations,
// mirroring the composite fake the other contexts use.
type Gateway struct {
	mu sync.Mutex

	submitted []entities.VoteCastRequest
	submitErr error
	blockOn   chan struct{}
}

func NewGateway() *Gateway {
	return &Gateway{}
}

func (g *Gateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitErr = err
}

// BlockNextSubmit makes the next SubmitVote wait until the returned channel
// is closed, so tests can hold a submission in flight.
func (g *Gateway) BlockNextSubmit() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.blockOn = make(chan struct{})
	return g.blockOn
}

func (g *Gateway) Submitted() []entities.VoteCastRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entities.VoteCastRequest, len(g.submitted))
	copy(out, g.submitted)
	return out
}

func (g *Gateway) SubmitVote(_ context.Context, request entities.VoteCastRequest) error {
	g.mu.Lock()
	block := g.blockOn
	g.blockOn = nil
	g.mu.Unlock()
	if block != nil {
		<-block
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitErr != nil {
		return g.submitErr
	}
	g.submitted = append(g.submitted, request)
	return nil
}

func (g *Gateway) Now() time.Time {
	return time.Now().UTC()
}

func (g *Gateway) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
