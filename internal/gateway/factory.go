package gateway

import (
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/sony/gobreaker/v2"
)

// Factory holds registered gateways, each behind its own circuit breaker.
type Factory struct {
	gateways        map[string]Gateway
	circuitBreakers map[string]*gobreaker.CircuitBreaker[*Intent]
}

func NewFactory(gatewaysList ...Gateway) *Factory {
	f := &Factory{
		gateways:        make(map[string]Gateway),
		circuitBreakers: make(map[string]*gobreaker.CircuitBreaker[*Intent]),
	}

	if len(gatewaysList) == 0 {
		f.Register(NewMockGateway("stripe",
			WithLatency(200*time.Millisecond),
			WithDeclineRate(0.05),
		))
	} else {
		for _, g := range gatewaysList {
			f.Register(g)
		}
	}

	return f
}

func (f *Factory) Register(g Gateway) {
	f.gateways[g.Name()] = g
	f.circuitBreakers[g.Name()] = gobreaker.NewCircuitBreaker[*Intent](gobreaker.Settings{
		Name:        g.Name(),
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})
}

func (f *Factory) Get(name string) (Gateway, *gobreaker.CircuitBreaker[*Intent], error) {
	g, ok := f.gateways[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown gateway %q: %w", name, domainErrors.ErrGatewayNotFound)
	}
	breaker := f.circuitBreakers[name]
	return g, breaker, nil
}
