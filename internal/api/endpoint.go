package api

import (
	"context"
	"math/rand/v2"
	"time"

	"wastewatch/internal/models"
	"wastewatch/internal/observability"
)

// endpoint is the per-operation middleware configuration.
type endpoint struct {
	name string
	// checkLogin short-circuits with UserNotAuthorized when nobody is
	// logged in.
	checkLogin bool
	// altersData flushes the whole snapshot after a successful call.
	altersData bool
}

// invoke is the uniform wrapper applied to every public operation. It is
// purely additive: a successful op's result passes through untouched.
// Post-call persistence and notification emission run only when the op
// succeeded and a current user exists.
func invoke[R any](ctx context.Context, a *API, ep endpoint,
	op func(context.Context) (R, error),
	notify func(R) []models.Notification,
) (R, error) {
	var zero R

	ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())
	ctx, span := observability.Tracer.Start(ctx, ep.name)
	defer span.End()
	a.oplog.LogCall(ctx, ep.name)

	if ep.checkLogin && a.store.CurrentUser() == nil {
		err := models.NewUnauthorizedError("no user logged in")
		observability.OperationsTotal.WithLabelValues(ep.name, "unauthorized").Inc()
		a.oplog.LogError(ctx, ep.name, err)
		return zero, err
	}

	// models network jitter; deliberately before the op, never after
	a.simulateLatency()

	out, err := op(ctx)
	if err != nil {
		span.RecordError(err)
		observability.OperationsTotal.WithLabelValues(ep.name, "error").Inc()
		a.oplog.LogError(ctx, ep.name, err)
		return zero, err
	}

	if current := a.store.CurrentUser(); current != nil {
		if ep.altersData {
			if ferr := a.store.Flush(ctx); ferr != nil {
				span.RecordError(ferr)
				observability.OperationsTotal.WithLabelValues(ep.name, "flush_error").Inc()
				a.oplog.LogError(ctx, ep.name, ferr)
				return zero, ferr
			}
		}
		if notify != nil {
			author := current.Ref()
			for _, n := range notify(out) {
				a.listeners.Dispatch(ctx, n.WithAuthor(author))
			}
		}
	}

	observability.OperationsTotal.WithLabelValues(ep.name, "ok").Inc()
	a.oplog.LogSuccess(ctx, ep.name)
	return out, nil
}

func (a *API) simulateLatency() {
	if a.maxLatency <= 0 {
		return
	}
	d := rand.N(a.maxLatency + 1)
	time.Sleep(d)
	observability.SimulatedLatency.Observe(d.Seconds())
}
