package httpapi

import (
	"sync/atomic"

	"jobdesk-engine/internal/config"
	"jobdesk-engine/internal/events"
	"jobdesk-engine/internal/guard"
	"jobdesk-engine/internal/state"
)

type Deps struct {
	Store     *state.Store
	Hub       *events.Hub
	Gate      *guard.EmailGate
	AutoSaver *state.AutoSaver

	// Atomic store for the live config
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
