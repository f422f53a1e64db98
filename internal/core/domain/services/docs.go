// Package services holds the workflow engine of the production pipeline and the stage view
// catalogue it shares with the read side.
//
// The engine is pure: it looks at an order and an actor and returns a Plan, the conditional
// write that performs the action. Whether the write commits is up to the store.
package services
