package schema

import (
	"os"
	"strings"
	"sync"
)

// AllowExtraEnv is the process-wide toggle controlling whether unknown
// top-level fields on general schema types are retained or dropped.
const AllowExtraEnv = "NEON_DATA_MODELS_ALLOW_EXTRA"

// Policy is the explicit extra-field configuration passed to top-level
// parsers. Nested sub-models always drop unknown keys regardless of policy,
// and context bags always retain them; Policy only governs the general
// record types in between.
type Policy struct {
	// AllowExtra retains unrecognized top-level fields through Dump when
	// true; they are silently dropped when false.
	AllowExtra bool
}

var (
	defaultPolicyOnce sync.Once
	defaultPolicy     Policy
)

// DefaultPolicy returns the process-wide policy, reading AllowExtraEnv
// exactly once per process. The value is fixed for the process lifetime;
// callers needing a different policy construct one explicitly rather than
// mutating shared state.
func DefaultPolicy() Policy {
	defaultPolicyOnce.Do(func() {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(AllowExtraEnv)))
		switch v {
		case "", "0", "false", "no", "ignore":
			defaultPolicy = Policy{AllowExtra: false}
		default:
			defaultPolicy = Policy{AllowExtra: true}
		}
	})
	return defaultPolicy
}
