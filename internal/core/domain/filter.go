package domain

import "strings"

// skippedModulePrefixes are well-known infrastructure and vendor modules
// that never contain application types.
var skippedModulePrefixes = []string{
	`std$`,
	`cmd/`,
	`runtime`,
	`internal/`,
	`golang\.org/x/`,
	`google\.golang\.org/`,
	`cloud\.google\.com/`,
	`go\.opentelemetry\.io/`,
	`go\.uber\.org/`,
	`go\.etcd\.io/`,
	`gopkg\.in/`,
	`k8s\.io/`,
	`sigs\.k8s\.io/`,
	`modernc\.org/`,
	`cuelang\.org/`,
	`mvdan\.cc/`,
	`dario\.cat/`,
	`github\.com/spf13/`,
	`github\.com/stretchr/`,
	`github\.com/charmbracelet/`,
	`github\.com/pelletier/`,
	`github\.com/fsnotify/`,
	`github\.com/google/`,
	`github\.com/golang/`,
	`github\.com/grpc-ecosystem/`,
	`github\.com/prometheus/`,
	`github\.com/sirupsen/`,
	`github\.com/pkg/errors`,
	`github\.com/davecgh/`,
	`github\.com/pmezard/`,
	`github\.com/go-logr/`,
	`github\.com/go-redis/`,
	`github\.com/redis/`,
	`github\.com/jackc/`,
	`github\.com/lib/pq`,
	`github\.com/mattn/`,
	`github\.com/aws/`,
	`github\.com/Azure/`,
	`github\.com/docker/`,
	`github\.com/moby/`,
	`github\.com/containerd/`,
	`github\.com/opencontainers/`,
	`github\.com/gin-gonic/`,
	`github\.com/labstack/`,
	`github\.com/gorilla/`,
	`github\.com/valyala/`,
	`github\.com/gofiber/`,
	`github\.com/json-iterator/`,
	`github\.com/klauspost/`,
	`github\.com/cespare/`,
	`github\.com/hashicorp/`,
	`github\.com/testcontainers/`,
	`github\.com/muesli/`,
	`github\.com/rivo/`,
	`github\.com/lucasb-eyer/`,
	`github\.com/inconshreveable/`,
	`github\.com/modelcontextprotocol/`,
	`github\.com/dustin/`,
	`github\.com/remyoudompheng/`,
	`github\.com/ncruces/`,
}

// DefaultSkipPattern excludes well-known infrastructure and vendor modules.
var DefaultSkipPattern = "^" + strings.Join(skippedModulePrefixes, "|^")

// DefaultRestrictPattern matches every module.
const DefaultRestrictPattern = ".*"

// FilterConfig decides which modules a scan considers. It is plain data:
// callers set it before a scan and the engine reads a snapshot per scan.
type FilterConfig struct {
	// SkipPattern excludes matching module full names. Evaluated first.
	SkipPattern string

	// RestrictPattern admits only matching module full names.
	RestrictPattern string

	// ModuleNames are loaded by name and always scanned, after the
	// filtered loaded modules.
	ModuleNames []string

	// IncludeLoadedModules makes already-loaded modules eligible.
	IncludeLoadedModules bool

	// Strict surfaces type enumeration failures as an aggregate error
	// instead of treating a failing module as empty.
	Strict bool
}

// DefaultFilterConfig returns the default filter: vendor modules skipped,
// everything else admitted, loaded modules included, lenient enumeration.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		SkipPattern:          DefaultSkipPattern,
		RestrictPattern:      DefaultRestrictPattern,
		IncludeLoadedModules: true,
	}
}

// Clone returns a deep copy safe to hand to a concurrent scan.
func (c FilterConfig) Clone() FilterConfig {
	out := c
	if c.ModuleNames != nil {
		out.ModuleNames = append([]string(nil), c.ModuleNames...)
	}
	return out
}
