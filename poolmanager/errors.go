package poolmanager

import "github.com/pkg/errors"

// ErrAcquireTimeout is returned when a full acquire sequence (pool
// selection plus driver acquire) exceeds its timeout.
var ErrAcquireTimeout = errors.New("poolmanager: acquire timed out")

// ErrUnknownConnection is returned by Release when passed a connection
// that was not obtained from this manager (or was already released).
var ErrUnknownConnection = errors.New("poolmanager: release received a connection not owned by this manager")

// ErrInvalidReadyArgs is returned by Ready when exactly one of
// mastersCount/replicasCount is nil.
var ErrInvalidReadyArgs = errors.New("poolmanager: masters_count and replicas_count must both be set or both be nil")

// ErrNegativeCount is returned by Ready when a count argument is negative.
var ErrNegativeCount = errors.New("poolmanager: ready counts must not be negative")

// ErrMasterAsReplicaWeightMisuse is returned when a caller sets
// MasterAsReplicaWeight on a non-read-only acquire.
var ErrMasterAsReplicaWeightMisuse = errors.New("poolmanager: master_as_replica_weight is only valid for read-only acquires")

// ErrWeightOutOfRange is returned when MasterAsReplicaWeight falls
// outside [0, 1].
var ErrWeightOutOfRange = errors.New("poolmanager: master_as_replica_weight must be in [0, 1]")

// ErrNotStarted is returned by Acquire when called before Start.
var ErrNotStarted = errors.New("poolmanager: manager has not been started")

// ErrAlreadyClosed is returned by Acquire once the manager has been
// closed or terminated.
var ErrAlreadyClosed = errors.New("poolmanager: manager is closed")
