package rest

const (
	// api
	RouteApi = "/api"

	// delivery
	RouteDownload = RouteApi + "/download/:upload_id"
	RouteFile     = RouteApi + "/file/:upload_id/:filename"
	RouteFiles    = RouteApi + "/files/:upload_id"

	// settings
	RouteSettings           = RouteApi + "/settings"
	RouteAdmin              = RouteApi + "/admin"
	RouteAdminSettings      = RouteAdmin + "/settings"
	RouteAdminQuickSettings = RouteAdmin + "/quick-settings"

	// static assets
	RouteLogos       = "/logos"
	RouteBackgrounds = "/backgrounds"

	// ops
	RouteHealth  = RouteApi + "/healthz"
	RouteMetrics = RouteApi + "/metrics"
)
