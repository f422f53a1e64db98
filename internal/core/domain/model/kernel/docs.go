// Package kernel provides the shared primitives of the atelier domain model:
// the UUID value object used for order and worker identities and the Clock
// that stamps every mutation.
package kernel
