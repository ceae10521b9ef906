// Package cli provides CLI commands for the auditcheck application.
package cli

import (
	gocontext "context"
	"os"
	"strings"

	"github.com/example/auditcheck/internal/ctxutil"
	"github.com/example/auditcheck/internal/wire"
)

// globalActorID stores the detected actor for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor detects the current actor identity and stores it globally.
// Resolution: AUDITCHECK_ACTOR, then the configured default auditor.
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	if actor := strings.TrimSpace(os.Getenv("AUDITCHECK_ACTOR")); actor != "" {
		globalActorID = actor
		return
	}
	// A broken config is reported by the command that needs it, not here,
	// so that 'config set' can still repair it.
	if cfg, err := wire.LoadConfig(); err == nil {
		globalActorID = cfg.DefaultAuditor
	}
}

// GetActorID returns the stored actor from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	return contextWithActor(globalActorID)
}

// NewContextAs is NewContext with an explicit actor taking precedence.
func NewContextAs(actor string) gocontext.Context {
	if a := strings.TrimSpace(actor); a != "" {
		return contextWithActor(a)
	}
	return NewContext()
}

func contextWithActor(actor string) gocontext.Context {
	ctx := gocontext.Background()
	if actor != "" {
		return ctxutil.WithActor(ctx, actor)
	}
	return ctx
}
