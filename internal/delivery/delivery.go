// Package delivery defines the entry points through which the outside world
// reaches the application.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by main and stopped
// through its lifecycle hook.
type Delivery interface {
	Serve(ctx context.Context) error
}
