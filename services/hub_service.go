package services

import "github.com/mbocsi/smdp/server"

// HubServiceImpl implements HubService
type HubServiceImpl struct {
	dispatcher *server.Dispatcher
}

func NewHubService(dispatcher *server.Dispatcher) HubService {
	return &HubServiceImpl{dispatcher: dispatcher}
}

func (hs *HubServiceImpl) GetStats() (server.Stats, error) {
	return hs.dispatcher.Stats(), nil
}

// EventServiceImpl implements EventService on top of the hub broker
type EventServiceImpl struct {
	broker *server.Broker
}

func NewEventService(broker *server.Broker) EventService {
	return &EventServiceImpl{broker: broker}
}

func (es *EventServiceImpl) Subscribe(kind string, sub server.Subscriber) error {
	if kind == "" {
		kind = server.AllEvents
	}
	es.broker.Subscribe(kind, sub)
	return nil
}

func (es *EventServiceImpl) Unsubscribe(sub server.Subscriber) error {
	es.broker.UnsubscribeAll(sub)
	return nil
}
