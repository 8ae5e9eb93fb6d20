// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Any signed-in user
	SecurityStaff                              // admin or worker
	SecurityAdmin                              // admin only
)

// EndpointSecurityConfig maps named HTTP routes to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"auth.login":    SecurityPublic,
	"auth.register": SecurityPublic,

	// Payment webhook - Public (authenticated by signature instead)
	"webhooks.stripe": SecurityPublic,

	// Availability - Public
	"availability.get":  SecurityPublic,
	"rooms.types":       SecurityPublic,
	"rooms.list":        SecurityPublic,
	"rooms.get":         SecurityPublic,
	"rooms.images.list": SecurityPublic,
	"health":            SecurityPublic,

	// Room images - Public download, staff upload
	"storage.download":    SecurityPublic,
	"storage.upload":      SecurityPublic, // guarded by the upload token in the URL
	"rooms.images.url":    SecurityStaff,
	"rooms.images.commit": SecurityStaff,

	// Checkout - Authenticated client
	"checkout.create": SecurityAuthenticated,

	// Reservations - client self-service
	"reservations.mine":   SecurityAuthenticated,
	"reservations.cancel": SecurityAuthenticated,
	"reservations.hide":   SecurityAuthenticated,

	// Reservations - staff
	"reservations.create":  SecurityStaff,
	"reservations.list":    SecurityStaff,
	"reservations.get":     SecurityAuthenticated,
	"reservations.update":  SecurityStaff,
	"reservations.status":  SecurityStaff,
	"reservations.paid":    SecurityStaff,
	"reservations.archive": SecurityStaff,
	"reservations.restore": SecurityStaff,

	// Rooms - staff
	"rooms.create":       SecurityStaff,
	"rooms.update":       SecurityStaff,
	"rooms.status":       SecurityStaff,
	"rooms.delete":       SecurityAdmin,
	"rooms.daily":        SecurityStaff,
	"rooms.housekeeping": SecurityStaff,

	// Notifications - staff
	"notifications.list":   SecurityStaff,
	"notifications.read":   SecurityStaff,
	"notifications.unread": SecurityStaff,
	"notifications.stream": SecurityStaff,

	// Activity log - admin
	"activity.list": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
