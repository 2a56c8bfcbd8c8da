package balancer

import "github.com/pkg/errors"

// ErrNoCandidates is returned by a policy when no pool of the requested
// role is available after waiting.
var ErrNoCandidates = errors.New("balancer: no candidate pools available")
