// Package profiling mounts the pprof endpoints on the API router.
//
// The endpoints expose goroutine stacks and heap contents, so the router
// only mounts them behind the admin bearer token and only when
// server.profiling is set.
package profiling

import (
	"net/http/pprof"
	"runtime"

	"github.com/go-chi/chi/v5"
)

// Path is where the endpoints are mounted
const Path = "/debug/pprof"

// Config holds profiling configuration
type Config struct {
	// BlockRate sets the block profiling rate (0 = disabled)
	BlockRate int

	// MutexFraction sets the mutex profiling fraction (0 = disabled)
	MutexFraction int
}

// DefaultConfig leaves block and mutex sampling off; they cost every
// blocking call while enabled
func DefaultConfig() Config {
	return Config{}
}

// RegisterRoutes adds the pprof routes under Path
func RegisterRoutes(router chi.Router, config Config) {
	runtime.SetBlockProfileRate(config.BlockRate)
	runtime.SetMutexProfileFraction(config.MutexFraction)

	router.Route(Path, func(r chi.Router) {
		r.HandleFunc("/", pprof.Index)
		r.HandleFunc("/cmdline", pprof.Cmdline)
		r.HandleFunc("/profile", pprof.Profile)
		r.HandleFunc("/symbol", pprof.Symbol)
		r.HandleFunc("/trace", pprof.Trace)

		for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			r.Handle("/"+name, pprof.Handler(name))
		}
	})
}
