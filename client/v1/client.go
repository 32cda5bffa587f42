package v1

// EventgateClient is the typed API client used by the operator console.
type EventgateClient struct {
	Transport *Transport
	Checkins  *CheckinEndpoint
}

func NewEventgateClient(baseURL string) *EventgateClient {
	t := NewTransport(baseURL)
	return &EventgateClient{
		Transport: t,
		Checkins:  &CheckinEndpoint{transport: t},
	}
}
