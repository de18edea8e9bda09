package httpadapter

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	corsAllowMethods = "GET,POST,OPTIONS"
	corsMaxAge       = "600"

	// stateVersionHeader mirrors the game's stateVersion on action and read
	// responses so clients can pick their next expected_version.
	stateVersionHeader = "X-State-Version"
)

var corsAllowHeaders = "Content-Type," + userIDHeader

// corsPolicy admits browser callers from a fixed origin list. An empty list
// or a "*" entry admits every origin.
type corsPolicy struct {
	origins  map[string]bool
	wildcard bool
}

func newCORSPolicy(origins []string) corsPolicy {
	p := corsPolicy{origins: map[string]bool{}}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins[o] = true
		}
	}
	if len(p.origins) == 0 {
		p.wildcard = true
	}
	return p
}

func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	if p.wildcard {
		return "*", true
	}
	if origin != "" && p.origins[origin] {
		return origin, true
	}
	return "", false
}

// apply writes the CORS headers and reports whether the origin is admitted.
func (p corsPolicy) apply(ctx *app.RequestContext) bool {
	allowed, ok := p.allowOrigin(string(ctx.GetHeader("Origin")))
	if !ok {
		return false
	}
	h := &ctx.Response.Header
	h.Set("Access-Control-Allow-Origin", allowed)
	if allowed != "*" {
		h.Add("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Expose-Headers", stateVersionHeader)
	h.Set("Access-Control-Max-Age", corsMaxAge)
	return true
}

func (p corsPolicy) middleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		admitted := p.apply(ctx)
		if string(ctx.Method()) == consts.MethodOptions {
			if !admitted {
				ctx.AbortWithStatus(consts.StatusForbidden)
				return
			}
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
