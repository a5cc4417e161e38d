// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"strings"

	"atelier/internal/platform/config"
	phttp "atelier/internal/platform/net/http"
	"atelier/internal/platform/net/middleware"

	"atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	"atelier/internal/modkit/module"
	"atelier/internal/modkit/swaggerkit"

	artmod "atelier/internal/services/api/art/module"
	authmod "atelier/internal/services/api/auth/module"
	contentmod "atelier/internal/services/api/content/module"
	metamod "atelier/internal/services/api/meta/module"
	usersmod "atelier/internal/services/api/users/module"
)

// Options are the API options
type Options struct {
	EnableSwagger  bool
	EnableProfiler bool

	// FilesDir serves a local blob directory under /files when set
	FilesDir string
}

// FromConfig reads CORE_API_SWAGGER, CORE_API_PROFILER and CORE_API_FILES_DIR
func FromConfig(c config.Conf) Options {
	return Options{
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),
		FilesDir:       c.MayString("FILES_DIR", ""),
	}
}

// Mount mounts the API service onto the given router
// the returned func releases what the modules hold and runs after the server stops
func Mount(r phttp.Router, deps modkit.Deps, opt Options) (closeFn func()) {
	if missing := deps.Missing(); len(missing) > 0 {
		panic("api: missing deps " + strings.Join(missing, ", "))
	}

	// users first: its roles back every admin gate
	users := usersmod.New(deps)
	deps.Gate = users.Gate()
	accounts := module.MustPortsOf[usersmod.Ports](users).Accounts

	auth := authmod.New(deps, modkit.WithPorts(authmod.Ports{Accounts: accounts}))

	mods := []module.Module{
		metamod.New(deps),
		users,
		auth,
		contentmod.New(deps),
	}
	if deps.Blob != nil {
		mods = append(mods, artmod.New(deps))
	} else {
		deps.Log.Warn().Msg("no blob store configured; the art gallery is not mounted")
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORS: middleware.CORSOptions{
			AllowedOrigins:   deps.Cfg.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", []string{"http://localhost:5173"}),
			AllowCredentials: true,
		},
		Metrics: observer(deps),
	})

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m)
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger, "Atelier API")
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	if opt.FilesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(opt.FilesDir))))
	}

	return auth.Close
}

func observer(deps modkit.Deps) middleware.Observer {
	if deps.Metrics == nil {
		return nil
	}
	return deps.Metrics
}
