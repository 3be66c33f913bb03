package interfaces

// Service is implemented by every transport exposing the fee validation
// app service. Start must not block, Stop gracefully drains pending requests.
type Service interface {
	Start() error
	Stop()
}
