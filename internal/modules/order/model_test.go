// README: Status-flow unit tests.
package order

import "testing"

func TestCanTransition_AllowedFlow(t *testing.T) {
	allowed := [][2]Status{
		{StatusCreated, StatusFindingDriver},
		{StatusFindingDriver, StatusAssigned},
		{StatusFindingDriver, StatusSupportRequired},
		{StatusFindingDriver, StatusCancelled},
		{StatusAssigned, StatusPickedUp},
		{StatusPickedUp, StatusCompleted},
		{StatusSupportRequired, StatusAssigned},
	}
	for _, tc := range allowed {
		if !CanTransition(tc[0], tc[1]) {
			t.Errorf("expected %s -> %s to be allowed", tc[0], tc[1])
		}
	}
}

func TestCanTransition_RejectedFlow(t *testing.T) {
	rejected := [][2]Status{
		{StatusCreated, StatusAssigned},
		{StatusAssigned, StatusFindingDriver},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusFindingDriver},
		{StatusPickedUp, StatusCancelled},
		{StatusFindingDriver, StatusFindingDriver},
	}
	for _, tc := range rejected {
		if CanTransition(tc[0], tc[1]) {
			t.Errorf("expected %s -> %s to be rejected", tc[0], tc[1])
		}
	}
}
