package httpkit

import "net/http"

// APIV1 is the prefix every module mounts under
const APIV1 = "/api/v1"

// MountAPIV1 opens the /api/v1 scope, applies the common stack and lets mount register modules
func MountAPIV1(r Router, stack []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(APIV1, func(api Router) {
		if len(stack) > 0 {
			api.Use(stack...)
		}
		mount(api)
	})
}
