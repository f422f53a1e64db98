// Package worker models the people acting on orders: their Role, the Identity an
// authenticated request carries and the Worker directory entry behind it.
//
// An inactive identity is rejected by every workflow operation (Identity.Authorize).
package worker
