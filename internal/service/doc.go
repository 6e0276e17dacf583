// Package service implements business logic for the skysight application.
//
// This package provides service layers that coordinate between the HTTP
// handlers and the repository layer, implementing business rules,
// validation, and event publishing.
//
// # Services
//
// CameraService manages camera definitions, built-in seeding and
// import/export of bundles via the codec package.
//
// StrategyService manages stored dither strategies.
//
// DitherService evaluates strategies into coverage reports and runs
// searchers from the optimizer package to find good slew sequences.
//
// # Event System
//
// All services publish events via EventBus for real-time updates to
// connected clients via Server-Sent Events (SSE). Event types include
// camera and strategy changes, report creation, and optimizer run
// progress.
//
// # Design Principles
//
// - Services own business logic and validation
// - Repository pattern for data access
// - Event-driven for real-time updates
package service
