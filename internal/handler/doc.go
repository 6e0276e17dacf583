// Package handler implements the HTTP API for skysight.
//
// Handlers translate between HTTP requests and the service layer:
// CameraHandler serves camera definitions and bundle import/export,
// StrategyHandler serves stored dither strategies, and DitherHandler
// serves evaluation, optimization and report queries. All responses
// are JSON; errors use the {error, details} shape.
//
// The package also provides the middleware chain used by the server:
// Recover, CORS, Logger and RequestMetrics.
package handler
