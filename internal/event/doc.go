// Package event provides a pub-sub event bus for decoupled communication
// between the client store, the credential watcher and the dashboards.
//
// # Main Types
//
//   - [Event]: implemented by every event, providing EventType() and Timestamp()
//   - [Bus]: synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: function type for event handlers (func(Event))
//
// # Events
//
//   - [IdentityChangedEvent]: the signed-in identity changed
//   - [OverrideChangedEvent]: an admin switched the viewed role
//   - [RouteChangedEvent]: the client navigated
//   - [SessionFileChangedEvent]: stored credentials changed on disk
//   - [UnauthorizedEvent]: a dashboard got a 401
//
// Handlers run synchronously on the publishing goroutine. A panicking
// handler is logged and does not stop delivery to the others.
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypeRouteChanged, func(e event.Event) {
//	    rc := e.(event.RouteChangedEvent)
//	    logger.Debug("navigated", "to", rc.To)
//	})
//	bus.Publish(event.NewRouteChangedEvent("/", "/session/demo"))
package event
