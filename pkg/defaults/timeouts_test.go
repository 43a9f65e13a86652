/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package defaults

import "testing"

func TestTimeoutOrdering(t *testing.T) {
	// Handler timeouts must fit within the server write timeout so errors
	// can still be written to the client.
	if ResolveHandlerTimeout >= ServerWriteTimeout {
		t.Error("ResolveHandlerTimeout must be shorter than ServerWriteTimeout")
	}
	if PlanHandlerTimeout >= ServerWriteTimeout {
		t.Error("PlanHandlerTimeout must be shorter than ServerWriteTimeout")
	}
	if EngineProbeTimeout >= BuildStepTimeout {
		t.Error("EngineProbeTimeout must be shorter than BuildStepTimeout")
	}
}

func TestTimeoutsArePositive(t *testing.T) {
	timeouts := map[string]int64{
		"BuildStepTimeout":       int64(BuildStepTimeout),
		"ImagePullTimeout":       int64(ImagePullTimeout),
		"EngineProbeTimeout":     int64(EngineProbeTimeout),
		"RegistryTagListTimeout": int64(RegistryTagListTimeout),
		"ResolveHandlerTimeout":  int64(ResolveHandlerTimeout),
		"PlanHandlerTimeout":     int64(PlanHandlerTimeout),
		"ServerReadTimeout":      int64(ServerReadTimeout),
		"ServerWriteTimeout":     int64(ServerWriteTimeout),
		"ServerIdleTimeout":      int64(ServerIdleTimeout),
		"ServerShutdownTimeout":  int64(ServerShutdownTimeout),
	}
	for name, d := range timeouts {
		if d <= 0 {
			t.Errorf("%s must be positive", name)
		}
	}
}
