package limiter

import (
	"log/slog"

	"github.com/aisa-it/aidoc/aidoc.go/internal/aidoc/config"
	"github.com/gofrs/uuid"
)

type LimiterInt interface {
	CanCreateDoc() bool
	CanCreateSnapshot(docId uuid.UUID) bool

	GetRemainingDocs() int
	GetRemainingSnapshots(docId uuid.UUID) int
}

var Limiter LimiterInt = CommunityLimiter{}

func Init(cfg *config.Config) {
	if cfg.ExternalLimiter == nil {
		slog.Info("Using Community limiter")
		return
	}
	Limiter = NewExternalLimiter(cfg.ExternalLimiter)
}

type CommunityLimiter struct{}

func (c CommunityLimiter) CanCreateDoc() bool {
	return true
}

func (c CommunityLimiter) CanCreateSnapshot(docId uuid.UUID) bool {
	return true
}

func (c CommunityLimiter) GetRemainingDocs() int {
	return 99999999
}

func (c CommunityLimiter) GetRemainingSnapshots(docId uuid.UUID) int {
	return 99999999
}
