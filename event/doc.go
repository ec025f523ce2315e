// SPDX-License-Identifier: EPL-2.0

// Package event is a small host-side event engine. An Instance of an event
// Description asks its Callbacks for a sound when it starts and gives it
// back when it stops, which is exactly the contract progsnd.Resolver
// implements:
//
//	desc := &event.Description{
//	    Path: "event:/Dialogue",
//	    Parameters: []event.ParameterDescription{
//	        {Name: "volume", Min: 0, Max: 1, Default: 0.8},
//	    },
//	}
//	inst, _ := desc.NewInstance(resolver, "Contact")
//	inst.Start(ctx)
//	pcm, _ := inst.Render(ctx, 8000, 0)
//	inst.Stop()
//
// Each instance carries its own key and parameters, so several instances
// of the same event can play different lines at once.
package event
