package deps

import (
	"github.com/and161185/orderdesk/internal/auth"
	"go.uber.org/zap"
)

type Deps struct {
	Logger       *zap.SugaredLogger
	TokenManager *auth.TokenManager
}

// NewDependencies builds the shared dependencies. A nil logger gets the
// production logger writing to stdout and server.log.
func NewDependencies(secretKey string, logger *zap.SugaredLogger) *Deps {
	if logger == nil {
		logCfg := zap.NewProductionConfig()
		logCfg.OutputPaths = []string{"stdout", "server.log"}
		logger = zap.Must(logCfg.Build()).Sugar()
	}

	return &Deps{Logger: logger, TokenManager: auth.NewTokenManager(secretKey)}
}
