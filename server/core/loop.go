package core

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
)

// Ticker is stepped once per loop iteration.
type Ticker interface {
	Tick(now time.Time)
}

type GameLoop struct {
	target   Ticker
	sync     func() error
	tickRate int
	stopChan chan struct{}
	stopOnce sync.Once
	log      *logrus.Entry
}

// NewGameLoop steps target tickRate times a second and runs sync after each
// step. sync may be nil.
func NewGameLoop(target Ticker, sync func() error, tickRate int) *GameLoop {
	return &GameLoop{
		target:   target,
		sync:     sync,
		tickRate: max(tickRate, 1),
		stopChan: make(chan struct{}),
		log:      logger.For("loop"),
	}
}

// Run blocks until ctx is done or Stop is called.
func (g *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.log.WithField("tickRate", g.tickRate).Info("game loop started")

	for {
		select {
		case <-ctx.Done():
			g.log.Info("game loop stopped")
			return nil
		case <-g.stopChan:
			g.log.Info("game loop stopped")
			return nil
		case now := <-ticker.C:
			g.tick(now)
		}
	}
}

func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
}

func (g *GameLoop) tick(now time.Time) {
	g.target.Tick(now)

	if g.sync == nil {
		return
	}
	if err := g.sync(); err != nil {
		g.log.WithError(err).Warn("sync error")
	}
}
