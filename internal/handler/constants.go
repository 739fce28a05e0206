package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteChangePassword is the forced password change route.
	RouteChangePassword = "/change-password"

	// RouteDashboard is the console root.
	RouteDashboard = "/dashboard"
	// RouteSetup is the business registration route.
	RouteSetup = "/setup"
	// RouteClients is the business management route.
	RouteClients = "/clients"
	// RouteLocations is the locations route.
	RouteLocations = "/locations"
	// RouteFacilities is the facilities route.
	RouteFacilities = "/facilities"
	// RouteUsers is the user management route.
	RouteUsers = "/users"
	// RouteBookings is the bookings route.
	RouteBookings = "/bookings"
	// RouteAnalytics is the analytics route.
	RouteAnalytics = "/analytics"
	// RouteSettings is the settings route.
	RouteSettings = "/settings"

	// RouteClientsID is the business ID route pattern.
	RouteClientsID = RouteClients + RouteParamID
	// RouteLocationsID is the location ID route pattern.
	RouteLocationsID = RouteLocations + RouteParamID
	// RouteUsersID is the user ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID

	// redirectLogin is the post-failure login redirect target.
	redirectLogin = "/login"
	// redirectDashboard is the post-login landing page.
	redirectDashboard = "/dashboard"
)

// defaultPerPage is the page size for console tables.
const defaultPerPage = 20

// maxPerPage caps the per_page query parameter.
const maxPerPage = 100
