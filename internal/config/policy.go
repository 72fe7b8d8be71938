package config

import "github.com/iliyamo/dorm-booking/internal/service"

// LoadBookingPolicy reads the tunable booking rules.
//
//	BOOKING_ALLOW_FORCE_CASCADE    force-deleting rooms with live bookings (default true)
//	NOTIFICATIONS_PAGE_SIZE        default feed page size (default 20)
//	NOTIFICATIONS_MAX_PAGE_SIZE    largest page a client may ask for (default 100)
func LoadBookingPolicy() service.Policy {
	p := service.Policy{
		AllowForcedCascade:      envBool("BOOKING_ALLOW_FORCE_CASCADE", true),
		NotificationPageSize:    envInt("NOTIFICATIONS_PAGE_SIZE", service.DefaultPolicy.NotificationPageSize),
		MaxNotificationPageSize: envInt("NOTIFICATIONS_MAX_PAGE_SIZE", service.DefaultPolicy.MaxNotificationPageSize),
	}
	if p.NotificationPageSize < 1 {
		p.NotificationPageSize = service.DefaultPolicy.NotificationPageSize
	}
	if p.MaxNotificationPageSize < p.NotificationPageSize {
		p.MaxNotificationPageSize = p.NotificationPageSize
	}
	return p
}
