package types

// ContextKey is the type for values the root command injects into the
// command context.
type ContextKey string

// ClientAppKey carries the initialized *client.App.
const ClientAppKey ContextKey = "app"
