package grid

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/meldgrid/pkg/geom"
)

// EventType names a grid notification.
type EventType string

const (
	EventItemAdded              EventType = "itemAdded"
	EventItemRemoved            EventType = "itemRemoved"
	EventItemMoved              EventType = "itemMoved"
	EventItemResized            EventType = "itemResized"
	EventItemLayoutUpdated      EventType = "itemLayoutUpdated"
	EventItemLayoutUpdateFailed EventType = "itemLayoutUpdateFailed"
	EventItemPayloadUpdated     EventType = "itemPayloadUpdated"
	EventLayoutLoaded           EventType = "layoutLoaded"
)

// Event is delivered to listeners after the engine state has changed.
//
// Layout is the item's layout after the change; Previous is the layout before
// it, when one existed. For EventLayoutLoaded only Count is set.
type Event struct {
	Type     EventType
	ItemID   int
	Layout   geom.Rect
	Previous geom.Rect
	Payload  json.RawMessage
	Reason   string
	Count    int
}

// Handler receives grid events. It must not retain Payload beyond the call.
type Handler func(Event)

// ListenerID identifies a subscription for Off.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn Handler
}

type bus struct {
	next      ListenerID
	listeners map[EventType][]listener
}

func (b *bus) on(t EventType, fn Handler) ListenerID {
	if b.listeners == nil {
		b.listeners = make(map[EventType][]listener)
	}
	b.next++
	b.listeners[t] = append(b.listeners[t], listener{id: b.next, fn: fn})
	return b.next
}

func (b *bus) off(t EventType, id ListenerID) bool {
	ls := b.listeners[t]
	for i, l := range ls {
		if l.id == id {
			b.listeners[t] = append(ls[:i:i], ls[i+1:]...)
			return true
		}
	}
	return false
}

// emit calls every listener for ev.Type in subscription order. Listeners
// added or removed during delivery take effect on the next emit.
func (b *bus) emit(ev Event, onPanic func(EventType, any)) {
	ls := b.listeners[ev.Type]
	if len(ls) == 0 {
		return
	}
	snapshot := make([]listener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		deliver(l.fn, ev, onPanic)
	}
}

func deliver(fn Handler, ev Event, onPanic func(EventType, any)) {
	defer func() {
		if r := recover(); r != nil {
			onPanic(ev.Type, r)
		}
	}()
	fn(ev)
}

// On subscribes fn to events of type t.
func (e *Engine) On(t EventType, fn Handler) ListenerID {
	return e.bus.on(t, fn)
}

// Off removes a subscription. It reports whether the listener was found.
func (e *Engine) Off(t EventType, id ListenerID) bool {
	return e.bus.off(t, id)
}

func (e *Engine) emit(ev Event) {
	e.bus.emit(ev, func(t EventType, r any) {
		e.logger.Error("grid listener panicked", "event", string(t), "panic", fmt.Sprint(r))
	})
}
