package domain

// Resources and actions of the authorization policy.
const (
	ResourceEvent        = "event"
	ResourceBooking      = "booking"
	ResourceNotification = "notification"
	ResourceDashboard    = "dashboard"

	ActionListManaged = "list_managed"
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionList        = "list"
	ActionGet         = "get"
	ActionCancel      = "cancel"
	ActionRead        = "read"
	ActionAdmin       = "admin"
	ActionOrganizer   = "organizer"
	ActionUser        = "user"
)

// Authorizer decides whether a role may perform an action on a resource type.
// Entity ownership is checked by the services, not here.
type Authorizer interface {
	Allowed(role Role, resource, action string) (bool, error)
}
