// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import "sync/atomic"

// Reachability is the advisory "remote reachable" flag.
//
// The [Client] flips it to false on transport failures and back to true on any
// successful call. It never gates calls; the persistence layer only consults it
// to classify ambiguous failures. The zero value reports reachable.
type Reachability struct {
	down atomic.Bool
}

// NewReachability returns a flag that starts out reachable.
func NewReachability() *Reachability {
	return &Reachability{}
}

// Reachable reports the last observed state.
func (r *Reachability) Reachable() bool {
	return !r.down.Load()
}

func (r *Reachability) markUp() {
	r.down.Store(false)
}

func (r *Reachability) markDown() {
	r.down.Store(true)
}
