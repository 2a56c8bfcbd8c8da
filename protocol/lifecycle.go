package protocol

import "context"

// Lifecycle is implemented by long-lived components managed by an
// application.Application: database pools, brokers, servers. Start must
// block until the component is ready to serve; Stop must release its
// resources and return once shutdown is complete or ctx expires.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
