package redisx

import "time"

const (
	// Per-tenant transaction sequence counter: seq:tenant:{tenant_id} -> int
	KeyTenantSeq = "seq:tenant:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
